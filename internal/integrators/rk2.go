package integrators

import "github.com/fluidlab/flip2d/internal/fluid"

// RK2 is the explicit midpoint scheme.
type RK2 struct{}

func NewRK2() RK2 {
	return RK2{}
}

func (RK2) Trace(p fluid.Vec2, dt float64, vel fluid.VelocityField) fluid.Vec2 {
	k1 := vel.Velocity(p)
	mid := p.Add(k1.Scale(dt * 0.5))
	return p.Add(vel.Velocity(mid).Scale(dt))
}
