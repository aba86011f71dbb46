package levelset

import (
	"errors"
	"math"
	"testing"

	"github.com/fluidlab/flip2d/internal/field"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/geometry"
)

func testGrid(n int, dx float64) field.Transform {
	half := 0.5 * float64(n) * dx
	return field.NewTransform(dx, fluid.Vec2{X: -half, Y: -half})
}

func TestInitSquareDistances(t *testing.T) {
	ls := New(testGrid(32, 0.1), 32, 32, 5)
	ls.Init(geometry.Square(fluid.Vec2{}, 0.8), false)

	cases := []struct {
		p    fluid.Vec2
		want float64
	}{
		{fluid.Vec2{X: 0.75, Y: 0}, -0.05},
		{fluid.Vec2{X: 0.95, Y: 0}, 0.15},
		{fluid.Vec2{X: 0, Y: -0.7}, -0.1},
	}
	for _, c := range cases {
		got := ls.Distance(c.p)
		if math.Abs(got-c.want) > 0.03 {
			t.Errorf("at (%.2f,%.2f): expected %f, got %f", c.p.X, c.p.Y, c.want, got)
		}
	}

	if !ls.IsInside(fluid.Vec2{}) {
		t.Error("expected center inside")
	}
	if ls.IsInside(fluid.Vec2{X: 1.2, Y: 1.2}) {
		t.Error("expected corner outside")
	}
}

func TestInitClampsToBand(t *testing.T) {
	ls := New(testGrid(32, 0.1), 32, 32, 5)
	ls.Init(geometry.Square(fluid.Vec2{}, 0.8), false)

	limit := ls.Limit()
	if got := ls.Distance(fluid.Vec2{}); got < -limit-1e-9 {
		t.Errorf("expected clamp at %f, got %f", -limit, got)
	}
	if got := ls.Phi().At(0, 0); got > limit+1e-9 {
		t.Errorf("expected clamp at %f, got %f", limit, got)
	}
}

func TestInitInvertedFlipsSign(t *testing.T) {
	inner := New(testGrid(32, 0.1), 32, 32, 5)
	inner.Init(geometry.Square(fluid.Vec2{}, 0.8), false)

	outer := New(testGrid(32, 0.1), 32, 32, 5)
	outer.Init(geometry.Square(fluid.Vec2{}, 0.8), true)

	p := fluid.Vec2{X: 0.5, Y: 0.5}
	if math.Abs(inner.Distance(p)+outer.Distance(p)) > 1e-9 {
		t.Errorf("expected opposite signs, got %f and %f", inner.Distance(p), outer.Distance(p))
	}
}

func TestUnionTakesMinimum(t *testing.T) {
	a := New(testGrid(32, 0.1), 32, 32, 5)
	a.Init(geometry.Circle(fluid.Vec2{X: -0.5}, 0.4, 64), false)
	b := New(testGrid(32, 0.1), 32, 32, 5)
	b.Init(geometry.Circle(fluid.Vec2{X: 0.5}, 0.4, 64), false)

	if err := a.Union(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsInside(fluid.Vec2{X: -0.5}) || !a.IsInside(fluid.Vec2{X: 0.5}) {
		t.Error("expected both circle centers inside the union")
	}
	if a.IsInside(fluid.Vec2{Y: 0.9}) {
		t.Error("expected point outside both circles to stay outside")
	}
}

func TestUnionTransformMismatch(t *testing.T) {
	a := New(testGrid(32, 0.1), 32, 32, 5)
	b := New(testGrid(16, 0.2), 16, 16, 5)

	if err := a.Union(b); !errors.Is(err, fluid.ErrTransformMismatch) {
		t.Errorf("expected ErrTransformMismatch, got %v", err)
	}
}

func TestVolumeSquare(t *testing.T) {
	ls := New(testGrid(64, 0.05), 64, 64, 5)
	ls.Init(geometry.Square(fluid.Vec2{}, 0.8), false)

	want := 1.6 * 1.6
	if got := ls.Volume(2); math.Abs(got-want) > 0.05*want {
		t.Errorf("expected volume near %f, got %f", want, got)
	}
}

func TestCurvatureOfCircle(t *testing.T) {
	ls := New(testGrid(64, 0.05), 64, 64, 10)
	ls.Init(geometry.Circle(fluid.Vec2{}, 0.8, 256), false)

	want := 1 / 0.8
	for _, theta := range []float64{0, math.Pi / 3, math.Pi} {
		p := fluid.Vec2{X: 0.8 * math.Cos(theta), Y: 0.8 * math.Sin(theta)}
		got := ls.Curvature(p)
		if math.Abs(got-want) > 0.3*want {
			t.Errorf("at angle %f: expected curvature near %f, got %f", theta, want, got)
		}
	}
}

func TestNormalPointsOutward(t *testing.T) {
	ls := New(testGrid(64, 0.05), 64, 64, 10)
	ls.Init(geometry.Circle(fluid.Vec2{}, 0.8, 256), false)

	n := ls.Normal(fluid.Vec2{X: 0.8, Y: 0})
	if math.Abs(n.X-1) > 0.05 || math.Abs(n.Y) > 0.05 {
		t.Errorf("expected normal near (1, 0), got (%f, %f)", n.X, n.Y)
	}
}

func TestInitComplementTracksAir(t *testing.T) {
	xform := testGrid(32, 0.1)
	liquid := New(xform, 32, 32, 5)
	liquid.Init(geometry.Circle(fluid.Vec2{}, 0.8, 128), false)

	solid := New(xform, 32, 32, 5)
	solid.Init(geometry.Square(fluid.Vec2{}, 1.4), true)

	air := New(xform, 32, 32, 5)
	if err := air.InitComplement(liquid, solid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Air fills free space outside the liquid but inside the tank.
	if !air.IsInside(fluid.Vec2{X: 1.1, Y: 1.1}) {
		t.Error("expected corner gap to be air")
	}
	if air.IsInside(fluid.Vec2{}) {
		t.Error("expected liquid center not to be air")
	}
}
