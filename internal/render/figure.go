package render

import (
	"encoding/json"
	"fmt"
	"html"
	"io"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-exosky/internal/chart"
)

// Marker colors and sizes for the labeled bodies of a 3D figure.
const (
	earthColor     = "blue"
	earthSize      = 2.0
	exoplanetColor = "red"
	exoplanetSize  = 5.0
	starColor      = "white"
)

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a scatter3d trace.
type Trace struct {
	Type      string      `json:"type"`
	Mode      string      `json:"mode"`
	Name      string      `json:"name"`
	X         []float64   `json:"x"`
	Y         []float64   `json:"y"`
	Z         []float64   `json:"z"`
	Text      []string    `json:"text,omitempty"`
	HoverInfo string      `json:"hoverinfo,omitempty"`
	Marker    TraceMarker `json:"marker"`
}

// TraceMarker styles the points of a trace.
type TraceMarker struct {
	Size    []float64 `json:"size"`
	Color   string    `json:"color"`
	Opacity float64   `json:"opacity,omitempty"`
}

// Layout is the figure layout.
type Layout struct {
	Title        string `json:"title"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
	Font         Font   `json:"font"`
	ShowLegend   bool   `json:"showlegend"`
	Legend       Legend `json:"legend"`
	Scene        Scene  `json:"scene"`
}

// Font sets the text color.
type Font struct {
	Color string `json:"color"`
}

// Legend positions the legend.
type Legend struct {
	Orientation string `json:"orientation"`
}

// Scene holds the 3D axes.
type Scene struct {
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	ZAxis      Axis   `json:"zaxis"`
	AspectMode string `json:"aspectmode"`
}

// Axis is a bare 3D axis: no grid, background or zero line.
type Axis struct {
	Title          string     `json:"title"`
	ShowGrid       bool       `json:"showgrid"`
	ShowBackground bool       `json:"showbackground"`
	ZeroLine       bool       `json:"zeroline"`
	ShowTickLabels bool       `json:"showticklabels"`
	Range          [2]float64 `json:"range"`
}

// NewFigure builds the Plotly figure for a 3D chart: the star cloud, then the
// origin body, then the other body.
func NewFigure(c chart.Chart3D) Figure {
	stars := Trace{
		Type:      "scatter3d",
		Mode:      "markers",
		Name:      "Stars",
		X:         c.X,
		Y:         c.Y,
		Z:         c.Z,
		Text:      c.IDs,
		HoverInfo: "text",
		Marker:    TraceMarker{Size: c.Size, Color: starColor, Opacity: 0.8},
	}

	f := Figure{
		Data: []Trace{
			stars,
			bodyTrace(c.Origin, c.Origin.Label == chart.EarthLabel),
			bodyTrace(c.Other, c.Other.Label == chart.EarthLabel),
		},
		Layout: Layout{
			Title:        c.Title(),
			PaperBGColor: "black",
			PlotBGColor:  "black",
			Font:         Font{Color: "white"},
			ShowLegend:   true,
			Legend:       Legend{Orientation: "h"},
		},
	}
	axis := sceneAxis(c)
	f.Layout.Scene = Scene{XAxis: axis, YAxis: axis, ZAxis: axis, AspectMode: "cube"}
	return f
}

func bodyTrace(m chart.Marker, earth bool) Trace {
	color, size := exoplanetColor, exoplanetSize
	if earth {
		color, size = earthColor, earthSize
	}
	return Trace{
		Type:   "scatter3d",
		Mode:   "markers+text",
		Name:   m.Label,
		X:      []float64{m.Pos.X},
		Y:      []float64{m.Pos.Y},
		Z:      []float64{m.Pos.Z},
		Text:   []string{m.Label},
		Marker: TraceMarker{Size: []float64{size}, Color: color},
	}
}

// sceneAxis returns one symmetric range covering every point and both
// bodies, so the scene stays a cube around the origin.
func sceneAxis(c chart.Chart3D) Axis {
	extent := 1.0
	for _, vs := range [][]float64{
		c.X, c.Y, c.Z,
		{c.Origin.Pos.X, c.Origin.Pos.Y, c.Origin.Pos.Z, c.Other.Pos.X, c.Other.Pos.Y, c.Other.Pos.Z},
	} {
		if len(vs) == 0 {
			continue
		}
		extent = max(extent, floats.Max(vs), -floats.Min(vs))
	}
	extent *= 1.05
	return Axis{Range: [2]float64{-extent, extent}}
}

// Encode writes the figure as JSON.
func (f Figure) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	return nil
}

// plotlyCDN is the script the HTML page loads.
const plotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// EncodeHTML writes a standalone page that renders the figure with Plotly.
func (f Figure) EncodeHTML(w io.Writer) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	_, err = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<script src="%s"></script>
</head>
<body style="margin:0;background:black">
<div id="chart" style="width:100vw;height:100vh"></div>
<script>
const fig = %s;
Plotly.newPlot("chart", fig.data, fig.layout);
</script>
</body>
</html>
`, html.EscapeString(f.Layout.Title), plotlyCDN, data)
	return err
}
