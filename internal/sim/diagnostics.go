package sim

import "math"

// MaxDivergence returns the largest discrete divergence magnitude over
// liquid cells with no solid neighbor. After projection this should sit
// at the solver tolerance.
func (s *Simulation) MaxDivergence() float64 {
	labels := s.labelCells()
	max := 0.0
	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			if labels[i*s.ny+j] != cellLiquid {
				continue
			}
			if s.solidCell(i-1, j) || s.solidCell(i+1, j) ||
				s.solidCell(i, j-1) || s.solidCell(i, j+1) {
				continue
			}
			if d := math.Abs(s.faceDivergence(i, j)); d > max {
				max = d
			}
		}
	}
	return max
}

// KineticEnergy integrates 0.5 |v|^2 over the liquid region.
func (s *Simulation) KineticEnergy() float64 {
	dx := s.xform.DX()
	total := 0.0
	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			if s.surface.Phi().At(i, j) > 0 {
				continue
			}
			u := 0.5 * (s.vel.U(i, j) + s.vel.U(i+1, j))
			v := 0.5 * (s.vel.V(i, j) + s.vel.V(i, j+1))
			total += 0.5 * (u*u + v*v) * dx * dx
		}
	}
	return total
}

// SurfacePerimeter measures the liquid contour length, the discrete
// proxy used to observe surface-tension relaxation.
func (s *Simulation) SurfacePerimeter() float64 {
	return s.surface.Perimeter()
}
