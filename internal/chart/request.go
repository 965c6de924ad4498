// Package chart assembles 2D star charts and 3D point clouds for a target
// exoplanet from catalog rows.
package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-exosky/internal/catalog"
)

// ErrInvalidRequest is returned for ViewRequests that cannot be charted.
var ErrInvalidRequest = errors.New("invalid view request")

// ViewRequest carries the user-chosen parameters of one chart run.
type ViewRequest struct {
	Target          string      // Exoplanet name as known to the registry
	POV             catalog.POV // Which body sits at the origin
	FOV             float64     // Field-of-view width in degrees (2D)
	MagnitudeLimit  float64     // Faintest apparent magnitude kept (2D)
	StarSize        float64     // Marker scale (2D)
	MaxPoints       int         // Point cap (3D); 0 means no cap
	PerspectiveSize float64     // Marker scale (3D)
}

// DefaultRequest returns a request for target with the stock view settings.
func DefaultRequest(target string) ViewRequest {
	return ViewRequest{
		Target:          target,
		POV:             catalog.POVEarth,
		FOV:             30,
		MagnitudeLimit:  8,
		StarSize:        100,
		MaxPoints:       5000,
		PerspectiveSize: 100,
	}
}

// Validate reports the first unusable parameter, wrapped in ErrInvalidRequest.
func (r ViewRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Target) == "":
		return fmt.Errorf("%w: target is required", ErrInvalidRequest)
	case r.POV != catalog.POVEarth && r.POV != catalog.POVExoplanet:
		return fmt.Errorf("%w: unknown pov %d", ErrInvalidRequest, int(r.POV))
	case !finite(r.FOV) || r.FOV <= 0:
		return fmt.Errorf("%w: fov must be positive, got %v", ErrInvalidRequest, r.FOV)
	case !finite(r.MagnitudeLimit):
		return fmt.Errorf("%w: magnitude limit must be finite", ErrInvalidRequest)
	case !finite(r.StarSize) || r.StarSize < 0:
		return fmt.Errorf("%w: star size must be non-negative, got %v", ErrInvalidRequest, r.StarSize)
	case !finite(r.PerspectiveSize) || r.PerspectiveSize < 0:
		return fmt.Errorf("%w: perspective size must be non-negative, got %v", ErrInvalidRequest, r.PerspectiveSize)
	case r.MaxPoints < 0:
		return fmt.Errorf("%w: max points cannot be negative, got %d", ErrInvalidRequest, r.MaxPoints)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
