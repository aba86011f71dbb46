package export

import (
	"fmt"
	"strings"

	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ccff">
`, width, height, width, height))

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	// Convert each braille character to dots
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ContourToSVG renders world-space contour segments as SVG polylines. The
// liquid contour, air contour and solid boundary can be layered by calling
// with different stroke colors and concatenating the groups via the returned
// fragment of Layers.
func ContourToSVG(layers []ContourLayer, width, height int) string {
	first := true
	var lo, hi fluid.Vec2
	for _, layer := range layers {
		for _, seg := range layer.Segments {
			for _, p := range seg {
				if first {
					lo, hi = p, p
					first = false
					continue
				}
				if p.X < lo.X {
					lo.X = p.X
				}
				if p.Y < lo.Y {
					lo.Y = p.Y
				}
				if p.X > hi.X {
					hi.X = p.X
				}
				if p.Y > hi.Y {
					hi.Y = p.Y
				}
			}
		}
	}
	if first {
		return ""
	}

	spanX := hi.X - lo.X
	spanY := hi.Y - lo.Y
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	scale := float64(width) / spanX
	if s := float64(height) / spanY; s < scale {
		scale = s
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, layer := range layers {
		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1.2" fill="none">`+"\n", layer.Color))
		for _, seg := range layer.Segments {
			a := project(seg[0], lo, scale, height)
			b := project(seg[1], lo, scale, height)
			sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
				a.X, a.Y, b.X, b.Y))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ContourLayer pairs contour segments with a stroke color.
type ContourLayer struct {
	Segments [][2]fluid.Vec2
	Color    string
}

func project(p, lo fluid.Vec2, scale float64, height int) fluid.Vec2 {
	// SVG y grows downward.
	return fluid.Vec2{
		X: (p.X - lo.X) * scale,
		Y: float64(height) - (p.Y-lo.Y)*scale,
	}
}
