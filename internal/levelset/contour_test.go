package levelset

import (
	"math"
	"testing"

	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/geometry"
)

func TestContourCirclePerimeter(t *testing.T) {
	ls := New(testGrid(64, 0.05), 64, 64, 10)
	ls.Init(geometry.Circle(fluid.Vec2{}, 0.8, 256), false)

	want := 2 * math.Pi * 0.8
	if got := ls.Perimeter(); math.Abs(got-want) > 0.1*want {
		t.Errorf("expected perimeter near %f, got %f", want, got)
	}
}

func TestContourLiesOnInterface(t *testing.T) {
	ls := New(testGrid(64, 0.05), 64, 64, 10)
	ls.Init(geometry.Circle(fluid.Vec2{}, 0.8, 256), false)

	segs := ls.Contour()
	if len(segs) == 0 {
		t.Fatal("expected contour segments")
	}

	dx := ls.Transform().DX()
	for _, seg := range segs {
		for _, p := range seg {
			if d := math.Abs(ls.Distance(p)); d > dx {
				t.Fatalf("contour point (%.3f,%.3f) is %f from the interface", p.X, p.Y, d)
			}
		}
	}
}

func TestContourEmptyRegion(t *testing.T) {
	ls := New(testGrid(16, 0.1), 16, 16, 5)

	if segs := ls.Contour(); len(segs) != 0 {
		t.Errorf("expected no segments for empty region, got %d", len(segs))
	}
	if got := ls.Perimeter(); got != 0 {
		t.Errorf("expected zero perimeter, got %f", got)
	}
}
