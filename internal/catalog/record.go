// Package catalog holds star and exoplanet-host records and the collaborators
// that load them from catalog exports.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-exosky/internal/astro"
)

// StarRecord is one catalog row. Absent numeric columns are NaN.
type StarRecord struct {
	ID       string  // Catalog designation (e.g., "Gaia DR3 4658...")
	RA       float64 // Right Ascension in degrees (ICRS)
	Dec      float64 // Declination in degrees (ICRS)
	Parallax float64 // Parallax in milliarcseconds
	Distance float64 // Distance in parsecs
	Mag      float64 // Apparent G-band magnitude (lower = brighter)
}

// HasParallax reports whether the parallax column was present.
func (s StarRecord) HasParallax() bool { return !math.IsNaN(s.Parallax) }

// HasDistance reports whether the distance column was present.
func (s StarRecord) HasDistance() bool { return !math.IsNaN(s.Distance) }

// HasMag reports whether the magnitude column was present.
func (s StarRecord) HasMag() bool { return !math.IsNaN(s.Mag) }

// MagOrDefault returns the apparent magnitude, or astro.DefaultMagnitude if absent.
func (s StarRecord) MagOrDefault() float64 {
	if !s.HasMag() {
		return astro.DefaultMagnitude
	}
	return s.Mag
}

// ResolveDistance returns the star's distance in parsecs, falling back to
// the parallax when no distance is cataloged.
func (s StarRecord) ResolveDistance() (float64, error) {
	return astro.ResolveDistance(s.Distance, s.Parallax)
}

// Target is an exoplanet with the position of its host system.
type Target struct {
	Name     string
	RA       float64 // degrees
	Dec      float64 // degrees
	Distance float64 // parsecs
	Parallax float64 // milliarcseconds
}

// ResolveDistance returns the system distance in parsecs.
func (t Target) ResolveDistance() (float64, error) {
	return astro.ResolveDistance(t.Distance, t.Parallax)
}

// POV selects which body sits at the origin of a chart.
type POV int

const (
	POVEarth     POV = iota // Looking from Earth toward the target
	POVExoplanet            // Looking from the target exoplanet
)

// String returns the POV name.
func (p POV) String() string {
	switch p {
	case POVEarth:
		return "earth"
	case POVExoplanet:
		return "exoplanet"
	default:
		return "unknown"
	}
}

// ErrUnknownPOV is returned by ParsePOV for unrecognized names.
var ErrUnknownPOV = errors.New("unknown point of view")

// ParsePOV parses a POV string. An empty string selects Earth.
func ParsePOV(s string) (POV, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "earth":
		return POVEarth, nil
	case "exoplanet", "exo", "planet", "target":
		return POVExoplanet, nil
	default:
		return POVEarth, fmt.Errorf("%w: %q (want earth or exoplanet)", ErrUnknownPOV, s)
	}
}

// FilterFOV returns the records inside the field of view, in input order.
func FilterFOV(records []StarRecord, fov astro.FieldOfView) []StarRecord {
	out := make([]StarRecord, 0, len(records))
	for _, r := range records {
		if fov.Contains(r.RA, r.Dec) {
			out = append(out, r)
		}
	}
	return out
}

// FilterMagnitude returns the records at or brighter than limit. Records
// without a magnitude are dropped.
func FilterMagnitude(records []StarRecord, limit float64) []StarRecord {
	out := make([]StarRecord, 0, len(records))
	for _, r := range records {
		if r.HasMag() && r.Mag <= limit {
			out = append(out, r)
		}
	}
	return out
}
