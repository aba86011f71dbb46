package sim

// viscositySweeps is the Gauss-Seidel iteration count for the implicit
// viscous update.
const viscositySweeps = 40

// solveViscosityStep applies the implicit viscous update
// (I - dt div(nu grad)) u = u* on the projected velocity, component by
// component on the face lattices. Faces inside solids hold the collision
// velocity (Dirichlet); faces toward air are left out of the stencil
// (natural boundary).
func (s *Simulation) solveViscosityStep(dt float64) {
	dx := s.xform.DX()
	coef := dt / (dx * dx)

	star := s.vel.Clone()

	nearLiquidU := func(i, j int) bool {
		return s.surface.Distance(s.vel.UWorld(i, j)) <= dx
	}
	nearLiquidV := func(i, j int) bool {
		return s.surface.Distance(s.vel.VWorld(i, j)) <= dx
	}

	for sweep := 0; sweep < viscositySweeps; sweep++ {
		for i := 1; i < s.nx; i++ {
			for j := 0; j < s.ny; j++ {
				if s.solidFaceU(i, j) {
					s.vel.SetU(i, j, s.solidVelU(i, j))
					continue
				}
				if !nearLiquidU(i, j) {
					continue
				}

				num := star.U(i, j)
				den := 1.0

				// Neighbor faces on the u lattice; viscosity sampled at
				// the midpoint between faces.
				visit := func(ni, nj int) {
					if ni < 0 || ni > s.nx || nj < 0 || nj >= s.ny {
						return
					}
					if !s.solidFaceU(ni, nj) && !nearLiquidU(ni, nj) {
						return
					}
					mid := s.vel.UWorld(i, j).Add(s.vel.UWorld(ni, nj)).Scale(0.5)
					nu := s.viscosity.Sample(mid)
					num += coef * nu * s.vel.U(ni, nj)
					den += coef * nu
				}
				visit(i-1, j)
				visit(i+1, j)
				visit(i, j-1)
				visit(i, j+1)

				s.vel.SetU(i, j, num/den)
			}
		}

		for i := 0; i < s.nx; i++ {
			for j := 1; j < s.ny; j++ {
				if s.solidFaceV(i, j) {
					s.vel.SetV(i, j, s.solidVelV(i, j))
					continue
				}
				if !nearLiquidV(i, j) {
					continue
				}

				num := star.V(i, j)
				den := 1.0

				visit := func(ni, nj int) {
					if ni < 0 || ni >= s.nx || nj < 0 || nj > s.ny {
						return
					}
					if !s.solidFaceV(ni, nj) && !nearLiquidV(ni, nj) {
						return
					}
					mid := s.vel.VWorld(i, j).Add(s.vel.VWorld(ni, nj)).Scale(0.5)
					nu := s.viscosity.Sample(mid)
					num += coef * nu * s.vel.V(ni, nj)
					den += coef * nu
				}
				visit(i-1, j)
				visit(i+1, j)
				visit(i, j-1)
				visit(i, j+1)

				s.vel.SetV(i, j, num/den)
			}
		}
	}
}
