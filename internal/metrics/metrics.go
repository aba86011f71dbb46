// Package metrics provides step observers over a running simulation.
// Metrics are consumed by drivers and tests; the core never reads them.
package metrics

import "github.com/fluidlab/flip2d/internal/sim"

// Metric observes the simulation after each frame and reduces to a value.
type Metric interface {
	Name() string
	Observe(s *sim.Simulation, t float64)
	Value() float64
	Series() []float64
	Reset()
}

type series struct {
	values []float64
}

func (h *series) Series() []float64 { return h.values }

func (h *series) Value() float64 {
	if len(h.values) == 0 {
		return 0
	}
	return h.values[len(h.values)-1]
}

func (h *series) Reset() { h.values = h.values[:0] }

// Volume tracks the estimated liquid area.
type Volume struct {
	series
}

func NewVolume() *Volume { return &Volume{} }

func (*Volume) Name() string { return "volume" }

func (m *Volume) Observe(s *sim.Simulation, _ float64) {
	m.values = append(m.values, s.ComputeVolume(true))
}

// MaxVelocity tracks the CFL-relevant velocity magnitude.
type MaxVelocity struct {
	series
}

func NewMaxVelocity() *MaxVelocity { return &MaxVelocity{} }

func (*MaxVelocity) Name() string { return "max_velocity" }

func (m *MaxVelocity) Observe(s *sim.Simulation, _ float64) {
	m.values = append(m.values, s.MaxVelMag())
}

// MaxDivergence tracks the post-projection divergence residual.
type MaxDivergence struct {
	series
}

func NewMaxDivergence() *MaxDivergence { return &MaxDivergence{} }

func (*MaxDivergence) Name() string { return "max_divergence" }

func (m *MaxDivergence) Observe(s *sim.Simulation, _ float64) {
	m.values = append(m.values, s.MaxDivergence())
}

// KineticEnergy tracks the liquid kinetic energy; projection and
// viscosity must never increase it beyond what forcing imparts.
type KineticEnergy struct {
	series
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (*KineticEnergy) Name() string { return "kinetic_energy" }

func (m *KineticEnergy) Observe(s *sim.Simulation, _ float64) {
	m.values = append(m.values, s.KineticEnergy())
}

// Perimeter tracks the liquid contour length, the surface-tension
// relaxation proxy.
type Perimeter struct {
	series
}

func NewPerimeter() *Perimeter { return &Perimeter{} }

func (*Perimeter) Name() string { return "perimeter" }

func (m *Perimeter) Observe(s *sim.Simulation, _ float64) {
	m.values = append(m.values, s.SurfacePerimeter())
}
