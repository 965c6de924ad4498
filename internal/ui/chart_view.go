package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exosky/internal/chart"
	"github.com/litescript/ls-exosky/internal/render"
)

const (
	glyphOrigin = '◆'
	glyphOther  = '◎'

	colorOrigin = "229" // bright gold
	colorOther  = "196" // red
	colorPoint  = "250"
	colorEmpty  = "236"
)

func renderChart2D(c *chart.Chart2D, width, height int) string {
	if c == nil {
		return mutedStyle.Render("  Select a target and press enter to build a chart.")
	}
	return render.Canvas{Width: width, Height: height}.Render(*c)
}

// renderChart3D draws a top-down (X/Y) projection of the point cloud with the
// origin body centered, followed by a summary line.
func renderChart3D(c *chart.Chart3D, width, height int) string {
	if c == nil {
		return mutedStyle.Render("  Select a target and press 3 to build a 3D view.")
	}
	if width < 20 || height < 6 {
		return "3D view requires larger terminal"
	}
	rows := height - 2

	canvas := make([][]rune, rows)
	colors := make([][]lipgloss.Color, rows)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", width))
		colors[y] = make([]lipgloss.Color, width)
		for x := range colors[y] {
			colors[y][x] = colorEmpty
		}
	}

	extent := 0.0
	for i := range c.X {
		extent = math.Max(extent, math.Max(math.Abs(c.X[i]), math.Abs(c.Y[i])))
	}
	extent = math.Max(extent, math.Max(math.Abs(c.Other.Pos.X), math.Abs(c.Other.Pos.Y)))
	if extent == 0 {
		extent = 1
	}

	project := func(x, y float64) (int, int, bool) {
		px := int((x/extent + 1) / 2 * float64(width-1))
		py := int((1 - y/extent) / 2 * float64(rows-1))
		return px, py, px >= 0 && px < width && py >= 0 && py < rows
	}

	for i := range c.X {
		if x, y, ok := project(c.X[i], c.Y[i]); ok {
			canvas[y][x] = pointGlyph(c.Size[i])
			colors[y][x] = colorPoint
		}
	}
	if x, y, ok := project(c.Other.Pos.X, c.Other.Pos.Y); ok {
		canvas[y][x] = glyphOther
		colors[y][x] = colorOther
	}
	if x, y, ok := project(0, 0); ok {
		canvas[y][x] = glyphOrigin
		colors[y][x] = colorOrigin
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title()))
	b.WriteString("\n")
	for y := range canvas {
		for x := range canvas[y] {
			b.WriteString(lipgloss.NewStyle().Foreground(colors[y][x]).Render(string(canvas[y][x])))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf(
		"%s %s at origin · %s %s · %d stars · mean %.1f pc · excluded %d (distance %d, non-finite %d) · ±%.1f pc",
		string(glyphOrigin), c.Origin.Label, string(glyphOther), c.Other.Label,
		c.Len(), c.MeanDistance, c.Excluded.Total(), c.Excluded.InvalidDistance, c.Excluded.NonFinite, extent)))
	return b.String()
}

// pointGlyph picks a glyph by 3D marker size.
func pointGlyph(size float64) rune {
	switch {
	case size >= 10:
		return '✸'
	case size >= 1:
		return '•'
	default:
		return '·'
	}
}
