// Package field provides the sampled field types shared by the simulator:
// a coordinate transform, a cell-centered scalar grid, and a staggered
// (MAC) vector grid.
package field

import "github.com/fluidlab/flip2d/internal/fluid"

// Transform maps continuous grid indices to world space. Every field in one
// simulation instance must share an identical transform; components check
// this before combining fields.
type Transform struct {
	dx     float64
	offset fluid.Vec2
}

func NewTransform(dx float64, offset fluid.Vec2) Transform {
	return Transform{dx: dx, offset: offset}
}

func (t Transform) DX() float64 {
	return t.dx
}

func (t Transform) Offset() fluid.Vec2 {
	return t.offset
}

// World maps a continuous index to a world position.
func (t Transform) World(i, j float64) fluid.Vec2 {
	return fluid.Vec2{X: t.offset.X + t.dx*i, Y: t.offset.Y + t.dx*j}
}

// Index maps a world position to a continuous index.
func (t Transform) Index(p fluid.Vec2) (i, j float64) {
	return (p.X - t.offset.X) / t.dx, (p.Y - t.offset.Y) / t.dx
}

// Matches reports whether two transforms are bit-identical. Fields with
// mismatched transforms must never be combined.
func (t Transform) Matches(o Transform) bool {
	return t.dx == o.dx && t.offset == o.offset
}
