package integrators

import "github.com/fluidlab/flip2d/internal/fluid"

// ByOrder maps a Runge-Kutta order (1-3) to its scheme. Orders outside the
// range fall back to RK3.
func ByOrder(order int) fluid.Integrator {
	switch order {
	case 1:
		return Euler{}
	case 2:
		return RK2{}
	default:
		return RK3{}
	}
}
