package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/litescript/ls-exosky/internal/chart"
)

var (
	colorBlack  = color.RGBA{0, 0, 0, 255}
	colorWhite  = color.RGBA{255, 255, 255, 255}
	colorRed    = color.RGBA{255, 0, 0, 255}
	colorYellow = color.RGBA{255, 255, 0, 255}
	colorAxis   = color.RGBA{96, 96, 96, 255}
)

const (
	highlightRadiusDeg = 0.3 // ring around the target
	labelOffsetDeg     = 0.5 // label offset in RA from the target
	maxDotRadius       = 12.0
)

// PNG rasterizes 2D charts: white stars on black, sized by marker size, with
// the target ringed in red and labeled in yellow.
type PNG struct {
	Width  int
	Height int
}

// DefaultPNG is a 1000x800 raster.
var DefaultPNG = PNG{Width: 1000, Height: 800}

// Raster draws the chart into a new image.
func (p PNG) Raster(c chart.Chart2D) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{colorBlack}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	plot := p.plotArea()
	strokeRect(img, plot.Inset(-1), colorAxis)

	b := c.Bounds
	sx := float64(plot.Dx()) / (b.MaxRA - b.MinRA)
	sy := float64(plot.Dy()) / (b.MaxDec - b.MinDec)
	toPixel := func(ra, dec float64) (float64, float64) {
		return float64(plot.Min.X) + (ra-b.MinRA)*sx, float64(plot.Max.Y) - (dec-b.MinDec)*sy
	}

	for i := range c.RA {
		x, y := toPixel(c.RA[i], c.Dec[i])
		fillCircle(img, plot, x, y, dotRadius(c.Size[i]), colorWhite)
	}

	if h := c.Highlight; h != nil {
		x, y := toPixel(h.RA, h.Dec)
		r := math.Max(highlightRadiusDeg*sx, 4)
		strokeCircle(img, plot, x, y, r, colorRed)
		lx, ly := toPixel(h.RA+labelOffsetDeg, h.Dec)
		drawText(img, face, int(lx), int(ly), h.Label, colorYellow)
	}

	drawText(img, face, plot.Min.X, plot.Min.Y-10, c.Title, colorWhite)
	drawText(img, face, plot.Min.X, plot.Max.Y+18, fmt.Sprintf("RA %.2f", b.MinRA), colorAxis)
	maxLabel := fmt.Sprintf("RA %.2f", b.MaxRA)
	drawText(img, face, plot.Max.X-font.MeasureString(face, maxLabel).Round(), plot.Max.Y+18, maxLabel, colorAxis)
	drawText(img, face, 4, plot.Max.Y, fmt.Sprintf("%.1f", b.MinDec), colorAxis)
	drawText(img, face, 4, plot.Min.Y+10, fmt.Sprintf("%.1f", b.MaxDec), colorAxis)
	return img
}

// Encode writes the chart as PNG.
func (p PNG) Encode(w io.Writer, c chart.Chart2D) error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid raster size %dx%d", p.Width, p.Height)
	}
	if err := png.Encode(w, p.Raster(c)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteFile writes the chart as a PNG file.
func (p PNG) WriteFile(path string, c chart.Chart2D) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return p.Encode(f, c)
}

func (p PNG) plotArea() image.Rectangle {
	const left, right, top, bottom = 48, 16, 32, 32
	return image.Rect(left, top, max(left+1, p.Width-right), max(top+1, p.Height-bottom))
}

// dotRadius converts a marker size (an area, in points squared) to a pixel
// radius.
func dotRadius(size float64) float64 {
	if math.IsNaN(size) || size <= 0 {
		return 0.5
	}
	return math.Min(math.Max(math.Sqrt(size)/2, 0.5), maxDotRadius)
}

func fillCircle(img *image.RGBA, clip image.Rectangle, cx, cy, r float64, c color.Color) {
	r2 := r * r
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 || (r < 1 && x == int(cx) && y == int(cy)) {
				set(img, clip, x, y, c)
			}
		}
	}
}

func strokeCircle(img *image.RGBA, clip image.Rectangle, cx, cy, r float64, c color.Color) {
	steps := int(math.Max(16, 2*math.Pi*r))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		set(img, clip, int(cx+r*math.Cos(a)), int(cy+r*math.Sin(a)), c)
	}
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

func set(img *image.RGBA, clip image.Rectangle, x, y int, c color.Color) {
	if image.Pt(x, y).In(clip) {
		img.Set(x, y, c)
	}
}

func drawText(img *image.RGBA, face font.Face, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
