package field

import (
	"math"

	"github.com/fluidlab/flip2d/internal/fluid"
)

// ScalarGrid stores cell-centered samples over a fixed-resolution domain.
// Dimensions and transform are immutable after construction; only sample
// values mutate.
type ScalarGrid struct {
	xform  Transform
	nx, ny int
	data   []float64
}

func NewScalarGrid(xform Transform, nx, ny int, fill float64) *ScalarGrid {
	g := &ScalarGrid{
		xform: xform,
		nx:    nx,
		ny:    ny,
		data:  make([]float64, nx*ny),
	}
	if fill != 0 {
		g.Fill(fill)
	}
	return g
}

func (g *ScalarGrid) Transform() Transform { return g.xform }
func (g *ScalarGrid) Size() (nx, ny int)   { return g.nx, g.ny }

func (g *ScalarGrid) At(i, j int) float64 {
	return g.data[i*g.ny+j]
}

func (g *ScalarGrid) Set(i, j int, v float64) {
	g.data[i*g.ny+j] = v
}

func (g *ScalarGrid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

func (g *ScalarGrid) Clone() *ScalarGrid {
	c := &ScalarGrid{xform: g.xform, nx: g.nx, ny: g.ny, data: make([]float64, len(g.data))}
	copy(c.data, g.data)
	return c
}

// CellWorld returns the world position of sample (i, j), located at the
// cell center.
func (g *ScalarGrid) CellWorld(i, j int) fluid.Vec2 {
	return g.xform.World(float64(i)+0.5, float64(j)+0.5)
}

// Sample interpolates the field bilinearly at a world position. Queries
// outside the sample lattice clamp to the nearest valid sample; staying
// in-domain is the caller's responsibility.
func (g *ScalarGrid) Sample(p fluid.Vec2) float64 {
	i, j := g.xform.Index(p)
	return bilinear(g.data, g.nx, g.ny, i-0.5, j-0.5)
}

// MaxAbs returns the largest sample magnitude, used for stability control
// by callers.
func (g *ScalarGrid) MaxAbs() float64 {
	max := 0.0
	for _, v := range g.data {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

// bilinear interpolates a sample lattice at continuous lattice coordinates,
// clamping the query into the lattice hull.
func bilinear(data []float64, nx, ny int, x, y float64) float64 {
	x = clamp(x, 0, float64(nx-1))
	y = clamp(y, 0, float64(ny-1))

	i0 := int(x)
	j0 := int(y)
	if i0 > nx-2 {
		i0 = nx - 2
	}
	if j0 > ny-2 {
		j0 = ny - 2
	}
	if i0 < 0 {
		i0 = 0
	}
	if j0 < 0 {
		j0 = 0
	}
	i1 := i0 + 1
	j1 := j0 + 1
	if nx == 1 {
		i1 = i0
	}
	if ny == 1 {
		j1 = j0
	}

	fx := x - float64(i0)
	fy := y - float64(j0)

	v00 := data[i0*ny+j0]
	v10 := data[i1*ny+j0]
	v01 := data[i0*ny+j1]
	v11 := data[i1*ny+j1]

	return (1-fx)*((1-fy)*v00+fy*v01) + fx*((1-fy)*v10+fy*v11)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
