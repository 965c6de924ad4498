package astro

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDistance is returned when neither parallax nor distance resolves
// to a positive, finite distance.
var ErrInvalidDistance = errors.New("invalid distance")

// MinDistance is the floor applied to distances before taking a logarithm.
const MinDistance = 1e-6 // parsecs

// DistanceFromParallax converts a parallax in milliarcseconds to parsecs.
func DistanceFromParallax(mas float64) (float64, error) {
	if !isFinite(mas) || mas <= 0 {
		return 0, fmt.Errorf("parallax %v mas: %w", mas, ErrInvalidDistance)
	}
	return 1000 / mas, nil
}

// ParallaxFromDistance converts a distance in parsecs to milliarcseconds.
func ParallaxFromDistance(pc float64) (float64, error) {
	if !isFinite(pc) || pc <= 0 {
		return 0, fmt.Errorf("distance %v pc: %w", pc, ErrInvalidDistance)
	}
	return 1000 / pc, nil
}

// ResolveDistance prefers an explicit distance and falls back to parallax.
// NaN marks an absent value.
func ResolveDistance(distPc, parallaxMas float64) (float64, error) {
	if isFinite(distPc) && distPc > 0 {
		return distPc, nil
	}
	return DistanceFromParallax(parallaxMas)
}

// clampDistance keeps logarithm arguments strictly positive.
func clampDistance(d float64) float64 {
	if math.IsNaN(d) || d <= MinDistance {
		return MinDistance
	}
	if math.IsInf(d, 1) {
		return math.MaxFloat64
	}
	return d
}
