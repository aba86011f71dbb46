package integrators

import (
	"math"
	"testing"

	"github.com/fluidlab/flip2d/internal/fluid"
)

type constVel struct {
	v fluid.Vec2
}

func (c constVel) Velocity(fluid.Vec2) fluid.Vec2 { return c.v }

// rotation is the solid-body field (-y, x); trajectories are circles.
type rotation struct{}

func (rotation) Velocity(p fluid.Vec2) fluid.Vec2 {
	return fluid.Vec2{X: -p.Y, Y: p.X}
}

func TestConstantFieldExact(t *testing.T) {
	integrators := []fluid.Integrator{NewEuler(), NewRK2(), NewRK3()}
	vel := constVel{fluid.Vec2{X: 2, Y: -1}}
	p := fluid.Vec2{X: 0.5, Y: 0.5}

	for _, integ := range integrators {
		got := integ.Trace(p, 0.1, vel)
		if math.Abs(got.X-0.7) > 1e-12 || math.Abs(got.Y-0.4) > 1e-12 {
			t.Errorf("%T: expected (0.7, 0.4), got (%f, %f)", integ, got.X, got.Y)
		}
	}
}

func TestOrderImprovesRotation(t *testing.T) {
	p := fluid.Vec2{X: 1, Y: 0}
	dt := 0.2
	exact := fluid.Vec2{X: math.Cos(dt), Y: math.Sin(dt)}

	errEuler := NewEuler().Trace(p, dt, rotation{}).Sub(exact).Len()
	errRK2 := NewRK2().Trace(p, dt, rotation{}).Sub(exact).Len()
	errRK3 := NewRK3().Trace(p, dt, rotation{}).Sub(exact).Len()

	if errRK2 >= errEuler {
		t.Errorf("expected rk2 error %e below euler error %e", errRK2, errEuler)
	}
	if errRK3 >= errRK2 {
		t.Errorf("expected rk3 error %e below rk2 error %e", errRK3, errRK2)
	}
}

func TestByOrder(t *testing.T) {
	if _, ok := ByOrder(1).(Euler); !ok {
		t.Errorf("expected order 1 to select Euler, got %T", ByOrder(1))
	}
	if _, ok := ByOrder(2).(RK2); !ok {
		t.Errorf("expected order 2 to select RK2, got %T", ByOrder(2))
	}
	if _, ok := ByOrder(3).(RK3); !ok {
		t.Errorf("expected order 3 to select RK3, got %T", ByOrder(3))
	}
	if _, ok := ByOrder(7).(RK3); !ok {
		t.Errorf("expected unknown order to fall back to RK3, got %T", ByOrder(7))
	}
}
