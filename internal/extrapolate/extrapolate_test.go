package extrapolate

import (
	"math"
	"testing"

	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/geometry"
	"github.com/fluidlab/flip2d/internal/levelset"
)

func circleScene(n int, dx, r float64) (field.Transform, *levelset.LevelSet) {
	half := 0.5 * float64(n) * dx
	xform := field.NewTransform(dx, fluid.Vec2{X: -half, Y: -half})
	ls := levelset.New(xform, n, n, 5)
	ls.Init(geometry.Circle(fluid.Vec2{}, r, 128), false)
	return xform, ls
}

func TestVelocityExtendsIntoBand(t *testing.T) {
	xform, ls := circleScene(32, 0.1, 0.8)
	vel := field.NewVectorGrid(xform, 32, 32, 0)

	// A constant value inside the liquid must extend unchanged: every
	// extrapolated sample averages neighbors that all read 2.5.
	nx, ny := vel.Size()
	for i := 0; i <= nx; i++ {
		for j := 0; j < ny; j++ {
			if ls.Distance(vel.UWorld(i, j)) <= 0 {
				vel.SetU(i, j, 2.5)
			}
		}
	}

	Velocity(vel, ls, 3)

	// Two cells outside the interface, inside the extrapolation band.
	p := fluid.Vec2{X: 0.8 + 2*0.1, Y: 0}
	if got := vel.Sample(p).X; math.Abs(got-2.5) > 0.5 {
		t.Errorf("expected extrapolated u near 2.5, got %f", got)
	}
}

func TestVelocityLeavesFarFieldUntouched(t *testing.T) {
	xform, ls := circleScene(32, 0.1, 0.4)
	vel := field.NewVectorGrid(xform, 32, 32, 0)

	nx, ny := vel.Size()
	for i := 0; i <= nx; i++ {
		for j := 0; j < ny; j++ {
			if ls.Distance(vel.UWorld(i, j)) <= 0 {
				vel.SetU(i, j, 2.5)
			}
		}
	}

	Velocity(vel, ls, 2)

	// A face many cells beyond the band must keep its prior value.
	if got := vel.U(0, 0); got != 0 {
		t.Errorf("expected corner face untouched, got %f", got)
	}
}

func TestScalarExtendsIntoBand(t *testing.T) {
	xform, ls := circleScene(32, 0.1, 0.8)
	g := field.NewScalarGrid(xform, 32, 32, 0)

	nx, ny := g.Size()
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if ls.Distance(g.CellWorld(i, j)) <= 0 {
				g.Set(i, j, 7)
			}
		}
	}

	Scalar(g, ls, 3)

	p := fluid.Vec2{X: 0, Y: 0.8 + 2*0.1}
	if got := g.Sample(p); math.Abs(got-7) > 1.5 {
		t.Errorf("expected extrapolated value near 7, got %f", got)
	}
}
