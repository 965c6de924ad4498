// Package astro provides the coordinate math behind star charts: spherical to
// Cartesian conversion, frame recentering, field-of-view boxes and
// magnitude-based marker sizing.
package astro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spherical is an equatorial position with a radial distance.
type Spherical struct {
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)
	DistPc float64 // Distance from the frame origin in parsecs
}

// Earth is the reference point of the catalog's native frame.
var Earth = Spherical{}

// ToCartesian converts an equatorial position to a right-handed Cartesian
// vector in parsecs:
//
//	x = d·cos(dec)·cos(ra)
//	y = d·cos(dec)·sin(ra)
//	z = d·sin(dec)
func ToCartesian(s Spherical) r3.Vec {
	ra := degToRad(s.RAdeg)
	dec := degToRad(s.DecDeg)
	cosDec := math.Cos(dec)

	return r3.Vec{
		X: s.DistPc * cosDec * math.Cos(ra),
		Y: s.DistPc * cosDec * math.Sin(ra),
		Z: s.DistPc * math.Sin(dec),
	}
}

// ToCartesianBatch converts each position, preserving index correspondence.
func ToCartesianBatch(ss []Spherical) []r3.Vec {
	out := make([]r3.Vec, len(ss))
	for i, s := range ss {
		out[i] = ToCartesian(s)
	}
	return out
}

// ToSpherical is the inverse of ToCartesian. RA is normalized to [0, 360).
// A zero vector has no direction: RA and Dec come back as NaN with distance 0.
func ToSpherical(v r3.Vec) Spherical {
	r := r3.Norm(v)
	if r == 0 {
		return Spherical{RAdeg: math.NaN(), DecDeg: math.NaN(), DistPc: 0}
	}

	sinDec := v.Z / r
	// Clamp for floating point drift
	if sinDec > 1 {
		sinDec = 1
	} else if sinDec < -1 {
		sinDec = -1
	}

	return Spherical{
		RAdeg:  Normalize360(radToDeg(math.Atan2(v.Y, v.X))),
		DecDeg: radToDeg(math.Asin(sinDec)),
		DistPc: r,
	}
}

// ToSphericalBatch applies ToSpherical to each vector.
func ToSphericalBatch(vs []r3.Vec) []Spherical {
	out := make([]Spherical, len(vs))
	for i, v := range vs {
		out[i] = ToSpherical(v)
	}
	return out
}

// Normalize360 wraps an angle in degrees to [0, 360).
func Normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// IsFiniteVec reports whether all components are finite.
func IsFiniteVec(v r3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
