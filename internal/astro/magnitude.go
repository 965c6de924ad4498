package astro

import "math"

// DefaultMagnitude substitutes a missing apparent magnitude.
const DefaultMagnitude = 2.5

// MarkerSize maps an apparent magnitude to a marker size. Lower (brighter)
// magnitudes give larger markers; each 2.5 magnitudes is a factor of 10.
func MarkerSize(mag, scale float64) float64 {
	return scale * math.Pow(10, mag/-2.5)
}

// AbsoluteMagnitude returns the absolute magnitude of a star with apparent
// magnitude m seen from distPc parsecs.
func AbsoluteMagnitude(m, distPc float64) float64 {
	return m - 5*math.Log10(clampDistance(distPc)/10)
}

// ApparentMagnitude returns the apparent magnitude of a star with absolute
// magnitude abs seen from distPc parsecs.
func ApparentMagnitude(abs, distPc float64) float64 {
	return abs + 5*math.Log10(clampDistance(distPc)/10)
}

// RecenteredMagnitude re-derives the apparent magnitude of a star after the
// observer moves, from its distance before and after the move.
func RecenteredMagnitude(m, distBefore, distAfter float64) float64 {
	return ApparentMagnitude(AbsoluteMagnitude(m, distBefore), distAfter)
}
