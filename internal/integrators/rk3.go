package integrators

import "github.com/fluidlab/flip2d/internal/fluid"

// RK3 is the third-order TVD Runge-Kutta scheme of Shu and Osher.
type RK3 struct{}

func NewRK3() RK3 {
	return RK3{}
}

func (RK3) Trace(p fluid.Vec2, dt float64, vel fluid.VelocityField) fluid.Vec2 {
	k1 := vel.Velocity(p)
	p1 := p.Add(k1.Scale(dt))

	k2 := vel.Velocity(p1)
	p2 := p.Add(k1.Add(k2).Scale(dt * 0.25))

	k3 := vel.Velocity(p2)
	return p.Add(k1.Add(k2).Add(k3.Scale(4)).Scale(dt / 6))
}
