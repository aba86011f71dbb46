package particles

import (
	"math"
	"testing"

	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/geometry"
	"github.com/fluidlab/flip2d/internal/integrators"
	"github.com/fluidlab/flip2d/internal/levelset"
)

type constVel struct {
	v fluid.Vec2
}

func (c constVel) Velocity(fluid.Vec2) fluid.Vec2 { return c.v }

func circleSet(t *testing.T, n int, dx, r float64) (*Set, *levelset.LevelSet) {
	t.Helper()
	half := 0.5 * float64(n) * dx
	xform := field.NewTransform(dx, fluid.Vec2{X: -half, Y: -half})
	ls := levelset.New(xform, n, n, 5)
	ls.Init(geometry.Circle(fluid.Vec2{}, r, 128), false)

	s := NewSet(dx/2, 4, 2.0, true, 1)
	s.Seed(ls)
	return s, ls
}

func TestSeedStaysInside(t *testing.T) {
	s, ls := circleSet(t, 32, 0.1, 0.8)

	if s.Len() == 0 {
		t.Fatal("expected particles after seeding")
	}
	for _, p := range s.Positions() {
		if ls.Distance(p) > 0 {
			t.Fatalf("particle (%.3f,%.3f) seeded outside the region", p.X, p.Y)
		}
	}
}

func TestSeedDensityBounded(t *testing.T) {
	s, _ := circleSet(t, 32, 0.1, 0.8)

	// About pi*r^2/dx^2 interior cells at 4 particles each.
	cells := math.Pi * 0.8 * 0.8 / (0.1 * 0.1)
	max := int(cells*4*1.2) + 1
	if s.Len() > max {
		t.Errorf("expected at most ~%d particles, got %d", max, s.Len())
	}
	if s.Len() < int(cells) {
		t.Errorf("expected at least ~%d particles, got %d", int(cells), s.Len())
	}
}

func TestAdvectClampsToDomain(t *testing.T) {
	s, _ := circleSet(t, 32, 0.1, 0.8)

	// A huge step pushes everything against the wall; positions must stay
	// inside the domain bounds.
	s.Advect(constVel{fluid.Vec2{X: 100, Y: 100}}, 1.0, integrators.NewEuler())

	for _, p := range s.Positions() {
		if p.X > 1.6 || p.Y > 1.6 || p.X < -1.6 || p.Y < -1.6 {
			t.Fatalf("particle escaped the domain: (%.3f,%.3f)", p.X, p.Y)
		}
	}
}

func TestReseedRemovesOutliers(t *testing.T) {
	s, ls := circleSet(t, 32, 0.1, 0.8)

	pos := s.Positions()
	pos[0] = fluid.Vec2{X: 1.5, Y: 1.5}
	pos[1] = fluid.Vec2{X: -1.5, Y: 1.5}

	_, removed := s.Reseed(ls, nil)
	if removed < 2 {
		t.Errorf("expected at least 2 outliers removed, got %d", removed)
	}
	for _, p := range s.Positions() {
		if ls.Distance(p) > 2.0*0.05+1e-9 {
			t.Fatalf("outlier survived reseed at (%.3f,%.3f)", p.X, p.Y)
		}
	}
}

func TestReseedRefillsDeficit(t *testing.T) {
	s, ls := circleSet(t, 32, 0.1, 0.8)
	before := s.Len()

	// Drop half the population, keeping the velocity slice in sync.
	s.pos = s.pos[:before/2]
	s.vel = s.vel[:before/2]

	added, _ := s.Reseed(ls, nil)
	if added == 0 {
		t.Error("expected reseed to add particles after depletion")
	}
	if s.Len() < before/2 {
		t.Errorf("expected population at least %d, got %d", before/2, s.Len())
	}
}

func TestTransferUniformVelocity(t *testing.T) {
	s, ls := circleSet(t, 32, 0.1, 0.8)

	want := fluid.Vec2{X: 1, Y: -2}
	vel := s.Velocities()
	for k := range vel {
		vel[k] = want
	}

	grid := field.NewVectorGrid(ls.Transform(), 32, 32, 0)
	s.TransferToGrid(grid)

	// Every covered face normalizes identical contributions, so the
	// sample at the center is exact.
	got := grid.Sample(fluid.Vec2{})
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("expected (%f, %f), got (%f, %f)", want.X, want.Y, got.X, got.Y)
	}
}

func TestUpdateFromGridPurePIC(t *testing.T) {
	s, ls := circleSet(t, 32, 0.1, 0.8)

	newVel := field.NewVectorGrid(ls.Transform(), 32, 32, 0)
	newVel.Fill(3)
	oldVel := field.NewVectorGrid(ls.Transform(), 32, 32, 0)

	s.UpdateFromGrid(newVel, oldVel, 0)

	for _, v := range s.Velocities() {
		if math.Abs(v.X-3) > 1e-9 || math.Abs(v.Y-3) > 1e-9 {
			t.Fatalf("expected pure PIC velocity (3, 3), got (%f, %f)", v.X, v.Y)
		}
	}
}

func TestUpdateFromGridFlipDelta(t *testing.T) {
	s, ls := circleSet(t, 32, 0.1, 0.8)

	vel := s.Velocities()
	for k := range vel {
		vel[k] = fluid.Vec2{X: 1, Y: 1}
	}

	oldVel := field.NewVectorGrid(ls.Transform(), 32, 32, 0)
	newVel := field.NewVectorGrid(ls.Transform(), 32, 32, 0)
	newVel.Fill(2)

	// Pure FLIP adds the grid delta (2, 2) to the carried velocity.
	s.UpdateFromGrid(newVel, oldVel, 1)

	for _, v := range s.Velocities() {
		if math.Abs(v.X-3) > 1e-9 || math.Abs(v.Y-3) > 1e-9 {
			t.Fatalf("expected FLIP velocity (3, 3), got (%f, %f)", v.X, v.Y)
		}
	}
}
