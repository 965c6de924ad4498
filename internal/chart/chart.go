package chart

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/litescript/ls-exosky/internal/astro"
	"github.com/litescript/ls-exosky/internal/catalog"
)

// EarthLabel labels Earth's marker in 3D charts.
const EarthLabel = "Earth"

// Highlight marks the target on a 2D chart.
type Highlight struct {
	Label string
	RA    float64 // degrees
	Dec   float64 // degrees
}

// Chart2D is a star field in angular coordinates, ready for a renderer.
// RA, Dec, Size and IDs are parallel slices.
type Chart2D struct {
	RunID  string
	Target string
	POV    catalog.POV
	Title  string

	RA   []float64
	Dec  []float64
	Size []float64
	IDs  []string

	Bounds    astro.Box
	Highlight *Highlight // nil unless POV is Earth
	Excluded  Excluded   // only NonFinite applies
}

// Len returns the number of stars.
func (c Chart2D) Len() int { return len(c.RA) }

// Marker is a labeled body drawn on a 3D chart.
type Marker struct {
	Label string
	Pos   r3.Vec // parsecs, chart frame
}

// Excluded counts records dropped from a chart.
type Excluded struct {
	InvalidDistance int // no positive distance or parallax
	NonFinite       int // NaN or infinite position or size
}

// Total returns the number of excluded records.
func (e Excluded) Total() int { return e.InvalidDistance + e.NonFinite }

// Chart3D is a point cloud in parsecs centered on the POV body.
// X, Y, Z, Size and IDs are parallel slices.
type Chart3D struct {
	RunID  string
	Target string
	POV    catalog.POV

	X    []float64
	Y    []float64
	Z    []float64
	Size []float64
	IDs  []string

	Origin Marker // at (0,0,0)
	Other  Marker

	Excluded     Excluded
	MeanDistance float64 // mean distance of the kept points from the origin; 0 when empty
}

// Len returns the number of points.
func (c Chart3D) Len() int { return len(c.X) }

// Title returns a caption for the chart.
func (c Chart3D) Title() string {
	return fmt.Sprintf("3D view from %s (%d stars)", c.Origin.Label, c.Len())
}

// Assemble2D filters records to the field of view around target and the
// magnitude limit, then sizes each star by its apparent magnitude.
// Records without a magnitude do not pass the limit; records whose size is
// not finite are dropped and counted in Excluded.NonFinite.
func Assemble2D(target catalog.Target, records []catalog.StarRecord, req ViewRequest) Chart2D {
	fov := astro.FieldOfView{CenterRA: target.RA, CenterDec: target.Dec, Width: req.FOV}
	kept := catalog.FilterMagnitude(catalog.FilterFOV(records, fov), req.MagnitudeLimit)

	c := Chart2D{
		Target: target.Name,
		POV:    req.POV,
		Title:  title2D(target, req),
		RA:     make([]float64, 0, len(kept)),
		Dec:    make([]float64, 0, len(kept)),
		Size:   make([]float64, 0, len(kept)),
		IDs:    make([]string, 0, len(kept)),
		Bounds: fov.Bounds(),
	}
	for _, r := range kept {
		size := astro.MarkerSize(r.MagOrDefault(), req.StarSize)
		if !finite(size) {
			c.Excluded.NonFinite++
			continue
		}
		c.RA = append(c.RA, r.RA)
		c.Dec = append(c.Dec, r.Dec)
		c.Size = append(c.Size, size)
		c.IDs = append(c.IDs, r.ID)
	}

	if req.POV == catalog.POVEarth {
		c.Highlight = &Highlight{Label: target.Name, RA: target.RA, Dec: target.Dec}
	}
	return c
}

func title2D(target catalog.Target, req ViewRequest) string {
	from := EarthLabel
	if req.POV == catalog.POVExoplanet {
		from = target.Name
	}
	return fmt.Sprintf("Star Chart from %s with fov of %s", from, strconv.FormatFloat(req.FOV, 'g', -1, 64))
}

// Assemble3D places records in Cartesian space. From the exoplanet POV the
// frame is shifted onto the target and magnitudes are re-derived for the new
// distances. Records are excluded when their distance cannot be resolved or
// their position or size is not finite; the survivors are truncated to the
// first req.MaxPoints in input order.
//
// It fails only when the target itself has no usable distance.
func Assemble3D(target catalog.Target, records []catalog.StarRecord, req ViewRequest) (Chart3D, error) {
	targetDist, err := target.ResolveDistance()
	if err != nil {
		return Chart3D{}, fmt.Errorf("target %q: %w", target.Name, err)
	}
	targetPos := astro.ToCartesian(astro.Spherical{RAdeg: target.RA, DecDeg: target.Dec, DistPc: targetDist})

	c := Chart3D{Target: target.Name, POV: req.POV}

	placed := make([]catalog.StarRecord, 0, len(records))
	positions := make([]astro.Spherical, 0, len(records))
	for _, r := range records {
		d, err := r.ResolveDistance()
		if err != nil {
			c.Excluded.InvalidDistance++
			continue
		}
		placed = append(placed, r)
		positions = append(positions, astro.Spherical{RAdeg: r.RA, DecDeg: r.Dec, DistPc: d})
	}

	points := astro.ToCartesianBatch(positions)
	recentered := req.POV == catalog.POVExoplanet
	var after []float64
	if recentered {
		points = astro.Shift(points, targetPos)
		after = astro.Distances(points)
		c.Origin = Marker{Label: target.Name}
		c.Other = Marker{Label: EarthLabel, Pos: r3.Scale(-1, targetPos)}
	} else {
		c.Origin = Marker{Label: EarthLabel}
		c.Other = Marker{Label: target.Name, Pos: targetPos}
	}

	capacity := len(points)
	if req.MaxPoints > 0 && req.MaxPoints < capacity {
		capacity = req.MaxPoints
	}
	c.X = make([]float64, 0, capacity)
	c.Y = make([]float64, 0, capacity)
	c.Z = make([]float64, 0, capacity)
	c.Size = make([]float64, 0, capacity)
	c.IDs = make([]string, 0, capacity)
	dists := make([]float64, 0, capacity)

	for i, p := range points {
		mag := placed[i].MagOrDefault()
		if recentered {
			mag = astro.RecenteredMagnitude(mag, positions[i].DistPc, after[i])
		}
		size := astro.MarkerSize(mag, req.PerspectiveSize)

		if !astro.IsFiniteVec(p) || !finite(size) {
			c.Excluded.NonFinite++
			continue
		}
		if req.MaxPoints > 0 && len(c.X) >= req.MaxPoints {
			continue
		}

		c.X = append(c.X, p.X)
		c.Y = append(c.Y, p.Y)
		c.Z = append(c.Z, p.Z)
		c.Size = append(c.Size, size)
		c.IDs = append(c.IDs, placed[i].ID)
		dists = append(dists, r3.Norm(p))
	}

	if len(dists) > 0 {
		c.MeanDistance = stat.Mean(dists, nil)
	}
	return c, nil
}
