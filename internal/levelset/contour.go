package levelset

import "github.com/fluidlab/flip2d/internal/fluid"

// Contour extracts the zero crossing as world-space line segments with
// marching squares over the cell-centered samples. Used for drawing and
// for perimeter diagnostics; it never feeds back into the physics.
func (l *LevelSet) Contour() [][2]fluid.Vec2 {
	nx, ny := l.phi.Size()
	xform := l.phi.Transform()

	var segs [][2]fluid.Vec2

	corner := func(i, j int) fluid.Vec2 {
		return xform.World(float64(i)+0.5, float64(j)+0.5)
	}

	// Zero crossing between two samples by linear interpolation.
	cross := func(pa, pb fluid.Vec2, va, vb float64) fluid.Vec2 {
		t := va / (va - vb)
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		return pa.Add(pb.Sub(pa).Scale(t))
	}

	for i := 0; i < nx-1; i++ {
		for j := 0; j < ny-1; j++ {
			v00 := l.phi.At(i, j)
			v10 := l.phi.At(i+1, j)
			v11 := l.phi.At(i+1, j+1)
			v01 := l.phi.At(i, j+1)

			var code int
			if v00 <= 0 {
				code |= 1
			}
			if v10 <= 0 {
				code |= 2
			}
			if v11 <= 0 {
				code |= 4
			}
			if v01 <= 0 {
				code |= 8
			}
			if code == 0 || code == 15 {
				continue
			}

			p00 := corner(i, j)
			p10 := corner(i+1, j)
			p11 := corner(i+1, j+1)
			p01 := corner(i, j+1)

			bottom := func() fluid.Vec2 { return cross(p00, p10, v00, v10) }
			right := func() fluid.Vec2 { return cross(p10, p11, v10, v11) }
			top := func() fluid.Vec2 { return cross(p01, p11, v01, v11) }
			left := func() fluid.Vec2 { return cross(p00, p01, v00, v01) }

			emit := func(a, b fluid.Vec2) {
				segs = append(segs, [2]fluid.Vec2{a, b})
			}

			switch code {
			case 1, 14:
				emit(left(), bottom())
			case 2, 13:
				emit(bottom(), right())
			case 3, 12:
				emit(left(), right())
			case 4, 11:
				emit(right(), top())
			case 6, 9:
				emit(bottom(), top())
			case 7, 8:
				emit(left(), top())
			case 5:
				// Ambiguous saddle, disambiguated by the cell average.
				if v00+v10+v11+v01 <= 0 {
					emit(left(), top())
					emit(bottom(), right())
				} else {
					emit(left(), bottom())
					emit(right(), top())
				}
			case 10:
				if v00+v10+v11+v01 <= 0 {
					emit(left(), bottom())
					emit(right(), top())
				} else {
					emit(left(), top())
					emit(bottom(), right())
				}
			}
		}
	}
	return segs
}

// Perimeter sums the contour segment lengths, a discrete total-curvature
// proxy used by the surface-tension relaxation diagnostics.
func (l *LevelSet) Perimeter() float64 {
	total := 0.0
	for _, s := range l.Contour() {
		total += s[1].Sub(s[0]).Len()
	}
	return total
}
