// Package render turns assembled charts into images, Plotly figures and
// terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exosky/internal/chart"
)

const (
	// Star glyphs by marker size relative to the largest star in view
	glyphStarBright  = '✶' // >= 50%
	glyphStarMedium  = '✸' // >= 10%
	glyphStarDim     = '•' // >= 2%
	glyphStarVeryDim = '·'

	glyphTarget = '◎'

	colorBackground  = "236"
	colorStarBright  = "255"
	colorStarMedium  = "250"
	colorStarDim     = "244"
	colorStarVeryDim = "240"
	colorTarget      = "196" // red
	colorLabel       = "226" // yellow
	colorFrame       = "60"  // muted purple
)

// Canvas renders a Chart2D as a grid of terminal cells. RA increases to the
// right and Dec upward, matching the PNG output.
type Canvas struct {
	Width  int
	Height int
	Plain  bool // no ANSI styling, for pipes and files
}

type cell struct {
	r     rune
	color lipgloss.Color
}

// Render draws the chart, a title line and a bounds footer.
func (cv Canvas) Render(c chart.Chart2D) string {
	if cv.Width < 10 || cv.Height < 5 {
		return "Star chart requires a larger canvas"
	}
	width, height := cv.Width, cv.Height-2

	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{' ', colorBackground}
		}
	}

	maxSize := 0.0
	for _, s := range c.Size {
		if s > maxSize {
			maxSize = s
		}
	}

	for i := range c.RA {
		x, y, ok := cv.project(c, c.RA[i], c.Dec[i], width, height)
		if !ok {
			continue
		}
		g, color := starGlyph(c.Size[i], maxSize)
		// Keep the brighter glyph when stars share a cell
		if rank(grid[y][x].r) >= rank(g) {
			continue
		}
		grid[y][x] = cell{g, color}
	}

	if h := c.Highlight; h != nil {
		if x, y, ok := cv.project(c, h.RA, h.Dec, width, height); ok {
			grid[y][x] = cell{glyphTarget, colorTarget}
			for i, r := range []rune(h.Label) {
				lx := x + 2 + i
				if lx >= width {
					break
				}
				grid[y][lx] = cell{r, colorLabel}
			}
		}
	}

	var b strings.Builder
	b.WriteString(cv.style(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")), c.Title))
	b.WriteString("\n")
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.WriteString(cv.style(lipgloss.NewStyle().Foreground(grid[y][x].color), string(grid[y][x].r)))
		}
		b.WriteString("\n")
	}
	footer := fmt.Sprintf("RA %.1f°–%.1f°  Dec %.1f°–%.1f°  %d stars",
		c.Bounds.MinRA, c.Bounds.MaxRA, c.Bounds.MinDec, c.Bounds.MaxDec, c.Len())
	b.WriteString(cv.style(lipgloss.NewStyle().Foreground(lipgloss.Color(colorFrame)), footer))
	return b.String()
}

func (cv Canvas) style(s lipgloss.Style, text string) string {
	if cv.Plain {
		return text
	}
	return s.Render(text)
}

// project maps RA/Dec inside the chart bounds to a cell.
func (cv Canvas) project(c chart.Chart2D, ra, dec float64, width, height int) (int, int, bool) {
	b := c.Bounds
	spanRA := b.MaxRA - b.MinRA
	spanDec := b.MaxDec - b.MinDec
	if spanRA <= 0 || spanDec <= 0 {
		return 0, 0, false
	}
	if ra < b.MinRA || ra >= b.MaxRA || dec < b.MinDec || dec >= b.MaxDec {
		return 0, 0, false
	}

	x := int((ra - b.MinRA) / spanRA * float64(width))
	y := int((b.MaxDec - dec) / spanDec * float64(height))
	if x >= width {
		x = width - 1
	}
	if y >= height {
		y = height - 1
	}
	return x, y, true
}

// starGlyph picks a glyph and color by marker size relative to the largest
// marker on the chart.
func starGlyph(size, maxSize float64) (rune, lipgloss.Color) {
	ratio := 0.0
	if maxSize > 0 {
		ratio = size / maxSize
	}
	switch {
	case ratio >= 0.5:
		return glyphStarBright, colorStarBright
	case ratio >= 0.1:
		return glyphStarMedium, colorStarMedium
	case ratio >= 0.02:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarVeryDim, colorStarVeryDim
	}
}

func rank(r rune) int {
	switch r {
	case glyphStarBright:
		return 4
	case glyphStarMedium:
		return 3
	case glyphStarDim:
		return 2
	case glyphStarVeryDim:
		return 1
	default:
		return 0
	}
}
