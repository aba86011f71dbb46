// Package viz renders simulation state to the terminal: a braille-dot
// canvas fills the Renderer role the core reports into, and the live view
// drives it under bubbletea.
package viz

import (
	"strings"

	"github.com/fluidlab/flip2d/internal/fluid"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights a sub-pixel; the canvas holds (Width*2) x (Height*4) of them.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws between sub-pixel coordinates with Bresenham stepping.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var sb strings.Builder
	for _, row := range c.Grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// WorldView maps world-space drawing calls onto a canvas. It implements
// fluid.Renderer for the core's draw operations.
type WorldView struct {
	canvas     *Canvas
	minX, minY float64
	scale      float64
}

// NewWorldView fits the world rectangle [min, max] into the canvas,
// preserving aspect by the tighter axis.
func NewWorldView(c *Canvas, min, max fluid.Vec2) *WorldView {
	pw := float64(c.Width * 2)
	ph := float64(c.Height * 4)
	sx := pw / (max.X - min.X)
	sy := ph / (max.Y - min.Y)
	scale := sx
	if sy < scale {
		scale = sy
	}
	return &WorldView{canvas: c, minX: min.X, minY: min.Y, scale: scale}
}

func (v *WorldView) pixel(p fluid.Vec2) (int, int) {
	x := int((p.X - v.minX) * v.scale)
	// Terminal rows grow downward; world Y grows upward.
	y := v.canvas.Height*4 - 1 - int((p.Y-v.minY)*v.scale)
	return x, y
}

func (v *WorldView) Line(a, b fluid.Vec2) {
	x0, y0 := v.pixel(a)
	x1, y1 := v.pixel(b)
	v.canvas.DrawLine(x0, y0, x1, y1)
}

func (v *WorldView) Point(p fluid.Vec2) {
	x, y := v.pixel(p)
	v.canvas.Set(x, y)
}
