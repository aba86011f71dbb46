// Package geometry builds the closed boundary curves handed to level sets.
// Scene construction is a collaborator of the simulation core: meshes are
// produced here and consumed only as opaque closed-boundary descriptions.
package geometry

import (
	"math"

	"github.com/fluidlab/flip2d/internal/fluid"
)

// Mesh is a closed polygonal boundary stored as vertices and directed
// edges. Counter-clockwise winding encloses the interior; Reverse flips the
// orientation for regions specified as the complement of free space.
type Mesh struct {
	Verts []fluid.Vec2
	Edges [][2]int
}

// Square builds an axis-aligned square boundary centered at c with the
// given half-width, wound counter-clockwise.
func Square(c fluid.Vec2, half float64) *Mesh {
	verts := []fluid.Vec2{
		{X: c.X - half, Y: c.Y - half},
		{X: c.X + half, Y: c.Y - half},
		{X: c.X + half, Y: c.Y + half},
		{X: c.X - half, Y: c.Y + half},
	}
	return loop(verts)
}

// Rect builds an axis-aligned rectangle with per-axis half-widths.
func Rect(c fluid.Vec2, halfX, halfY float64) *Mesh {
	verts := []fluid.Vec2{
		{X: c.X - halfX, Y: c.Y - halfY},
		{X: c.X + halfX, Y: c.Y - halfY},
		{X: c.X + halfX, Y: c.Y + halfY},
		{X: c.X - halfX, Y: c.Y + halfY},
	}
	return loop(verts)
}

// Circle approximates a circular boundary with segs line segments.
func Circle(c fluid.Vec2, r float64, segs int) *Mesh {
	if segs < 3 {
		segs = 3
	}
	verts := make([]fluid.Vec2, segs)
	for k := 0; k < segs; k++ {
		theta := 2 * math.Pi * float64(k) / float64(segs)
		verts[k] = fluid.Vec2{X: c.X + r*math.Cos(theta), Y: c.Y + r*math.Sin(theta)}
	}
	return loop(verts)
}

// PerturbedCircle builds a circle whose radius oscillates with the given
// mode count and amplitude, useful for surface-tension relaxation scenes.
func PerturbedCircle(c fluid.Vec2, r, amp float64, mode, segs int) *Mesh {
	if segs < 3 {
		segs = 3
	}
	verts := make([]fluid.Vec2, segs)
	for k := 0; k < segs; k++ {
		theta := 2 * math.Pi * float64(k) / float64(segs)
		rk := r + amp*math.Cos(float64(mode)*theta)
		verts[k] = fluid.Vec2{X: c.X + rk*math.Cos(theta), Y: c.Y + rk*math.Sin(theta)}
	}
	return loop(verts)
}

func loop(verts []fluid.Vec2) *Mesh {
	n := len(verts)
	edges := make([][2]int, n)
	for k := 0; k < n; k++ {
		edges[k] = [2]int{k, (k + 1) % n}
	}
	return &Mesh{Verts: verts, Edges: edges}
}

// Reverse flips every edge, swapping inside and outside.
func (m *Mesh) Reverse() {
	for k := range m.Edges {
		m.Edges[k][0], m.Edges[k][1] = m.Edges[k][1], m.Edges[k][0]
	}
}

// Insert appends another mesh's geometry, typically a reversed hole.
func (m *Mesh) Insert(o *Mesh) {
	base := len(m.Verts)
	m.Verts = append(m.Verts, o.Verts...)
	for _, e := range o.Edges {
		m.Edges = append(m.Edges, [2]int{e[0] + base, e[1] + base})
	}
}

// Valid reports whether the boundary is closed: every vertex must have
// exactly one incoming and one outgoing edge.
func (m *Mesh) Valid() bool {
	out := make([]int, len(m.Verts))
	in := make([]int, len(m.Verts))
	for _, e := range m.Edges {
		if e[0] < 0 || e[0] >= len(m.Verts) || e[1] < 0 || e[1] >= len(m.Verts) {
			return false
		}
		out[e[0]]++
		in[e[1]]++
	}
	for k := range m.Verts {
		if out[k] != 1 || in[k] != 1 {
			return false
		}
	}
	return true
}

// SignedArea is positive for counter-clockwise loops.
func (m *Mesh) SignedArea() float64 {
	area := 0.0
	for _, e := range m.Edges {
		a, b := m.Verts[e[0]], m.Verts[e[1]]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}
