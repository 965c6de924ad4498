package astro

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Shift translates every point so that origin becomes (0,0,0).
// The result is a new slice in the same order as points.
func Shift(points []r3.Vec, origin r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = r3.Sub(p, origin)
	}
	return out
}

// Recenter converts positions to Cartesian and shifts them onto ref.
// Recentering on Earth is the identity on the converted points.
func Recenter(positions []Spherical, ref Spherical) []r3.Vec {
	return Shift(ToCartesianBatch(positions), ToCartesian(ref))
}

// Distances returns the radial distance of each point from the origin.
func Distances(points []r3.Vec) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = r3.Norm(p)
	}
	return out
}
