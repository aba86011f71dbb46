package particles

import "github.com/fluidlab/flip2d/internal/field"

// TransferToGrid splats carried particle velocities onto the staggered
// grid with bilinear weights, normalizing by accumulated weight. Faces no
// particle touches keep their prior values, so the grid advection result
// stands in where coverage is sparse.
func (s *Set) TransferToGrid(vel *field.VectorGrid) {
	if !s.trackVel || len(s.pos) == 0 {
		return
	}

	nx, ny := vel.Size()
	uAcc := make([]float64, (nx+1)*ny)
	uW := make([]float64, (nx+1)*ny)
	vAcc := make([]float64, nx*(ny+1))
	vW := make([]float64, nx*(ny+1))

	for k, p := range s.pos {
		i, j := vel.Transform().Index(p)
		splat(uAcc, uW, nx+1, ny, i, j-0.5, s.vel[k].X)
		splat(vAcc, vW, nx, ny+1, i-0.5, j, s.vel[k].Y)
	}

	for i := 0; i <= nx; i++ {
		for j := 0; j < ny; j++ {
			k := i*ny + j
			if uW[k] > 0 {
				vel.SetU(i, j, uAcc[k]/uW[k])
			}
		}
	}
	for i := 0; i < nx; i++ {
		for j := 0; j <= ny; j++ {
			k := i*(ny+1) + j
			if vW[k] > 0 {
				vel.SetV(i, j, vAcc[k]/vW[k])
			}
		}
	}
}

// UpdateFromGrid blends each particle velocity between the FLIP increment
// (carried velocity plus the grid delta across the solve) and a fresh PIC
// sample. flipRatio near 1 preserves detail; the PIC fraction bleeds off
// accumulated noise.
func (s *Set) UpdateFromGrid(newVel, oldVel *field.VectorGrid, flipRatio float64) {
	if !s.trackVel {
		return
	}
	for k, p := range s.pos {
		pic := newVel.Sample(p)
		flip := s.vel[k].Add(pic.Sub(oldVel.Sample(p)))
		s.vel[k] = flip.Scale(flipRatio).Add(pic.Scale(1 - flipRatio))
	}
}

// splat accumulates one bilinear contribution into a sample lattice,
// dropping out-of-lattice corners.
func splat(acc, w []float64, nx, ny int, x, y, val float64) {
	i0 := int(x)
	j0 := int(y)
	if x < 0 {
		i0 = -1
	}
	if y < 0 {
		j0 = -1
	}
	fx := x - float64(i0)
	fy := y - float64(j0)

	add := func(i, j int, weight float64) {
		if i < 0 || i >= nx || j < 0 || j >= ny || weight <= 0 {
			return
		}
		acc[i*ny+j] += weight * val
		w[i*ny+j] += weight
	}

	add(i0, j0, (1-fx)*(1-fy))
	add(i0+1, j0, fx*(1-fy))
	add(i0, j0+1, (1-fx)*fy)
	add(i0+1, j0+1, fx*fy)
}
