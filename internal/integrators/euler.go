// Package integrators supplies the explicit Runge-Kutta schemes used by
// every semi-Lagrangian characteristic trace. Order 1 is forward Euler;
// orders 2 and 3 reduce numerical diffusion at the cost of extra velocity
// samples per trace.
package integrators

import "github.com/fluidlab/flip2d/internal/fluid"

type Euler struct{}

func NewEuler() Euler {
	return Euler{}
}

func (Euler) Trace(p fluid.Vec2, dt float64, vel fluid.VelocityField) fluid.Vec2 {
	return p.Add(vel.Velocity(p).Scale(dt))
}
