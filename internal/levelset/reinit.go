package levelset

import "math"

// Reinitialize restores the signed-distance property within the narrow
// band by fast sweeping: interface-adjacent cells are frozen at distances
// recovered from the zero crossing, then four ordered Gauss-Seidel sweeps
// solve the Eikonal update outward. Invoked after every advection pass to
// bound accumulated drift.
func (l *LevelSet) Reinitialize() {
	nx, ny := l.phi.Size()
	dx := l.phi.Transform().DX()
	limit := l.Limit()

	dist := make([]float64, nx*ny)
	frozen := make([]bool, nx*ny)
	sign := make([]int8, nx*ny)

	idx := func(i, j int) int { return i*ny + j }

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			k := idx(i, j)
			dist[k] = limit
			if l.phi.At(i, j) <= 0 {
				sign[k] = -1
			} else {
				sign[k] = 1
			}
		}
	}

	// Freeze cells adjacent to the zero crossing at the interpolated
	// crossing distance along each axis.
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			c := l.phi.At(i, j)
			best := math.Inf(1)

			check := func(n float64) {
				if (c <= 0) != (n <= 0) {
					denom := c - n
					if math.Abs(denom) < 1e-12 {
						return
					}
					theta := c / denom
					if d := math.Abs(theta) * dx; d < best {
						best = d
					}
				}
			}

			if i > 0 {
				check(l.phi.At(i-1, j))
			}
			if i < nx-1 {
				check(l.phi.At(i+1, j))
			}
			if j > 0 {
				check(l.phi.At(i, j-1))
			}
			if j < ny-1 {
				check(l.phi.At(i, j+1))
			}

			if !math.IsInf(best, 1) {
				k := idx(i, j)
				dist[k] = best
				frozen[k] = true
			}
		}
	}

	update := func(i, j int) {
		k := idx(i, j)
		if frozen[k] {
			return
		}
		a := limit
		if i > 0 && dist[idx(i-1, j)] < a {
			a = dist[idx(i-1, j)]
		}
		if i < nx-1 && dist[idx(i+1, j)] < a {
			a = dist[idx(i+1, j)]
		}
		b := limit
		if j > 0 && dist[idx(i, j-1)] < b {
			b = dist[idx(i, j-1)]
		}
		if j < ny-1 && dist[idx(i, j+1)] < b {
			b = dist[idx(i, j+1)]
		}

		var d float64
		if math.Abs(a-b) >= dx {
			d = math.Min(a, b) + dx
		} else {
			d = 0.5 * (a + b + math.Sqrt(2*dx*dx-(a-b)*(a-b)))
		}
		if d < dist[k] {
			dist[k] = d
		}
	}

	// Four sweep orderings propagate characteristics from every quadrant.
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			update(i, j)
		}
	}
	for i := nx - 1; i >= 0; i-- {
		for j := 0; j < ny; j++ {
			update(i, j)
		}
	}
	for i := nx - 1; i >= 0; i-- {
		for j := ny - 1; j >= 0; j-- {
			update(i, j)
		}
	}
	for i := 0; i < nx; i++ {
		for j := ny - 1; j >= 0; j-- {
			update(i, j)
		}
	}

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			k := idx(i, j)
			d := dist[k]
			if d > limit {
				d = limit
			}
			l.phi.Set(i, j, float64(sign[k])*d)
		}
	}
}
