package metrics

import (
	"testing"

	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/geometry"
	"github.com/fluidlab/flip2d/internal/levelset"
	"github.com/fluidlab/flip2d/internal/sim"
)

func testSim(t *testing.T) *sim.Simulation {
	t.Helper()
	n, dx := 16, 0.1
	half := 0.5 * float64(n) * dx
	xform := field.NewTransform(dx, fluid.Vec2{X: -half, Y: -half})
	s := sim.New(xform, n, n, 4)

	liquid := levelset.New(xform, n, n, 4)
	liquid.Init(geometry.Circle(fluid.Vec2{}, 0.4, 64), false)
	if err := s.SetSurfaceVolume(liquid); err != nil {
		t.Fatalf("surface: %v", err)
	}
	return s
}

func TestMetricNames(t *testing.T) {
	cases := []struct {
		m    Metric
		want string
	}{
		{NewVolume(), "volume"},
		{NewMaxVelocity(), "max_velocity"},
		{NewMaxDivergence(), "max_divergence"},
		{NewKineticEnergy(), "kinetic_energy"},
		{NewPerimeter(), "perimeter"},
	}
	for _, tc := range cases {
		if got := tc.m.Name(); got != tc.want {
			t.Errorf("expected name %q, got %q", tc.want, got)
		}
	}
}

func TestObserveAccumulatesSeries(t *testing.T) {
	s := testSim(t)
	m := NewVolume()

	m.Observe(s, 0)
	m.Observe(s, 0.1)

	if got := len(m.Series()); got != 2 {
		t.Fatalf("expected 2 samples, got %d", got)
	}
	if m.Value() <= 0 {
		t.Errorf("expected positive liquid volume, got %f", m.Value())
	}
	if m.Value() != m.Series()[1] {
		t.Error("expected Value to report the latest sample")
	}
}

func TestReset(t *testing.T) {
	s := testSim(t)
	m := NewPerimeter()

	m.Observe(s, 0)
	m.Reset()

	if got := len(m.Series()); got != 0 {
		t.Errorf("expected empty series after reset, got %d samples", got)
	}
	if m.Value() != 0 {
		t.Errorf("expected zero value after reset, got %f", m.Value())
	}
}

func TestMaxVelocityTracksForce(t *testing.T) {
	s := testSim(t)
	m := NewMaxVelocity()

	m.Observe(s, 0)
	rest := m.Value()

	s.AddConstantForce(fluid.Vec2{Y: -1}, 0.5)
	m.Observe(s, 0.1)

	if m.Value() <= rest {
		t.Errorf("expected velocity metric to grow, got %f -> %f", rest, m.Value())
	}
}
