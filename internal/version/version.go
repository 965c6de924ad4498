// Package version provides build and version information.
package version

import (
	"fmt"
	"runtime"
)

// Version is the current application version.
const Version = "0.3.0"

// Commit is set at build time with -ldflags "-X .../version.Commit=...".
var Commit = "dev"

// Milestones:
// 0.3.0 - Archive refresh (Gaia, NASA Exoplanet Archive), Prometheus metrics, Plotly HTML export
// 0.2.0 - Exoplanet POV recentering with re-derived magnitudes, 3D terminal view
// 0.1.0 - Initial release: 2D star charts from Earth, PNG export, target list TUI

// String returns a one-line version description.
func String() string {
	return fmt.Sprintf("ls-exosky v%s (%s, %s %s/%s)", Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
