package sim

import "github.com/fluidlab/flip2d/internal/fluid"

// Drawing operations report current state to an externally supplied
// renderer. They never read anything back; the renderer's absence never
// affects physics.

// DrawSurface draws the liquid interface contour.
func (s *Simulation) DrawSurface(r fluid.Renderer) {
	for _, seg := range s.surface.Contour() {
		r.Line(seg[0], seg[1])
	}
}

// DrawAir draws the tracked air-pocket contour.
func (s *Simulation) DrawAir(r fluid.Renderer) {
	if !s.trackAir {
		return
	}
	for _, seg := range s.airSurface.Contour() {
		r.Line(seg[0], seg[1])
	}
}

// DrawCollision draws the solid boundary contour.
func (s *Simulation) DrawCollision(r fluid.Renderer) {
	for _, seg := range s.collision.Contour() {
		r.Line(seg[0], seg[1])
	}
}

// DrawParticles draws every marker position.
func (s *Simulation) DrawParticles(r fluid.Renderer) {
	for _, p := range s.parts.Positions() {
		r.Point(p)
	}
}

// DrawVelocity draws a velocity whisker of the given world-time length at
// each cell center.
func (s *Simulation) DrawVelocity(r fluid.Renderer, length float64) {
	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			c := s.xform.World(float64(i)+0.5, float64(j)+0.5)
			v := s.vel.Sample(c)
			if v.Len() == 0 {
				continue
			}
			r.Line(c, c.Add(v.Scale(length)))
		}
	}
}

// DrawCollisionVelocity draws moving-solid velocity whiskers.
func (s *Simulation) DrawCollisionVelocity(r fluid.Renderer, length float64) {
	if !s.movingSolids {
		return
	}
	for i := 0; i < s.nx; i++ {
		for j := 0; j < s.ny; j++ {
			if s.collision.Phi().At(i, j) > 0 {
				continue
			}
			c := s.xform.World(float64(i)+0.5, float64(j)+0.5)
			v := s.collisionVel.Sample(c)
			if v.Len() == 0 {
				continue
			}
			r.Line(c, c.Add(v.Scale(length)))
		}
	}
}

// DrawGrid draws the cell lattice.
func (s *Simulation) DrawGrid(r fluid.Renderer) {
	for i := 0; i <= s.nx; i++ {
		a := s.xform.World(float64(i), 0)
		b := s.xform.World(float64(i), float64(s.ny))
		r.Line(a, b)
	}
	for j := 0; j <= s.ny; j++ {
		a := s.xform.World(0, float64(j))
		b := s.xform.World(float64(s.nx), float64(j))
		r.Line(a, b)
	}
}
