package archive

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-exosky/internal/astro"
	"github.com/litescript/ls-exosky/internal/catalog"
)

const (
	// ConeRadius is the radius of star cone searches in degrees.
	ConeRadius = 90.0

	// EarthMagnitudeLimit keeps Earth POV queries to stars brighter than this.
	EarthMagnitudeLimit = 10.0

	// LightYear in parsecs.
	LightYear = 0.30660139378795

	// DistanceWindow is the half-width of the exoplanet POV shell, in parsecs.
	DistanceWindow = 1 * LightYear
)

var starColumns = []string{
	"gaia_source.designation",
	"gaia_source.ra",
	"gaia_source.dec",
	"gaia_source.parallax",
	"gaia_source.phot_g_mean_mag",
	"gaia_source.distance_gspphot",
}

// TargetsQuery returns the ADQL for the exoplanet host table.
func TargetsQuery() string {
	return "SELECT pl_name, ra, dec, sy_plx, sy_dist FROM pscomppars " +
		"WHERE sy_dist IS NOT NULL ORDER BY sy_dist"
}

// StarsQuery returns the ADQL for a Gaia DR3 cone search around target.
//
// From Earth it keeps stars with a parallax brighter than
// EarthMagnitudeLimit. From the exoplanet it keeps stars within
// DistanceWindow of the target's distance, matching on either the Gaia
// distance or the equivalent parallax range.
func StarsQuery(target catalog.Target, pov catalog.POV, limit int) (string, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if limit > 0 {
		fmt.Fprintf(&b, "TOP %d ", limit)
	}
	b.WriteString(strings.Join(starColumns, ","))
	b.WriteString(" FROM gaiadr3.gaia_source WHERE ")
	fmt.Fprintf(&b, `CONTAINS(POINT('ICRS',gaiadr3.gaia_source.ra,gaiadr3.gaia_source.dec),CIRCLE('ICRS',%s,%s,%s))=1`,
		formatNumber(target.RA), formatNumber(target.Dec), formatNumber(ConeRadius))

	switch pov {
	case catalog.POVExoplanet:
		dist, err := target.ResolveDistance()
		if err != nil {
			return "", fmt.Errorf("target %q: %w", target.Name, err)
		}
		minDist := max(dist-DistanceWindow, astro.MinDistance)
		maxDist := dist + DistanceWindow
		minPlx, _ := astro.ParallaxFromDistance(maxDist)
		maxPlx, _ := astro.ParallaxFromDistance(minDist)
		fmt.Fprintf(&b, " AND ((gaiadr3.gaia_source.distance_gspphot BETWEEN %s AND %s) OR (gaiadr3.gaia_source.parallax BETWEEN %s AND %s))",
			formatNumber(minDist), formatNumber(maxDist), formatNumber(minPlx), formatNumber(maxPlx))
		b.WriteString(" ORDER BY gaia_source.distance_gspphot ASC, gaia_source.parallax ASC")
	default:
		fmt.Fprintf(&b, " AND parallax IS NOT NULL AND (gaiadr3.gaia_source.phot_g_mean_mag<%s)", formatNumber(EarthMagnitudeLimit))
		b.WriteString(" ORDER BY gaia_source.distance_gspphot ASC")
	}
	return b.String(), nil
}
