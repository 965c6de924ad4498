package astro

// FieldOfView is an axis-aligned box in RA/Dec centered on a target.
//
// It is not a great-circle cone: the box does not wrap at RA 0/360 and does
// not narrow toward the poles.
type FieldOfView struct {
	CenterRA  float64 // degrees
	CenterDec float64 // degrees
	Width     float64 // full width in degrees
}

// Box is the half-open angular extent [Min, Max) of a FieldOfView.
type Box struct {
	MinRA, MaxRA   float64
	MinDec, MaxDec float64
}

// Bounds returns the box covered by the field of view.
func (f FieldOfView) Bounds() Box {
	half := f.Width / 2
	return Box{
		MinRA:  f.CenterRA - half,
		MaxRA:  f.CenterRA + half,
		MinDec: f.CenterDec - half,
		MaxDec: f.CenterDec + half,
	}
}

// Contains reports whether (ra, dec) lies inside the box.
func (f FieldOfView) Contains(raDeg, decDeg float64) bool {
	b := f.Bounds()
	return raDeg >= b.MinRA && raDeg < b.MaxRA &&
		decDeg >= b.MinDec && decDeg < b.MaxDec
}
