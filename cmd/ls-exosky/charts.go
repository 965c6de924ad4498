package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-exosky/internal/catalog"
	"github.com/litescript/ls-exosky/internal/chart"
	"github.com/litescript/ls-exosky/internal/render"
)

// Chart flags
var (
	povFlag         string
	fovFlag         float64
	magFlag         float64
	starSizeFlag    float64
	maxPointsFlag   int
	perspectiveFlag float64
	outFlag         string
	widthFlag       int
	heightFlag      int
)

var chart2DCmd = &cobra.Command{
	Use:   "chart2d <target>",
	Short: "Draw a 2D star chart around a target",
	Long: `Draw the stars inside a square field of view centered on the target.

Without --out the chart is drawn in the terminal. With --out ending in .png it
is rasterized to an image.

Examples:
  ls-exosky chart2d "TOI-700 d"
  ls-exosky chart2d "Ross 128 b" --pov exoplanet --fov 20 --out ross.png`,
	Args: cobra.ExactArgs(1),
	RunE: runChart2D,
}

var chart3DCmd = &cobra.Command{
	Use:   "chart3d <target>",
	Short: "Build a 3D point cloud around Earth or a target",
	Long: `Place the target's stars in 3D, centered on Earth or on the exoplanet.

Without --out a summary and a table of the first ten stars are printed. With --out the
figure is written as Plotly JSON (.json) or a standalone page (.html).`,
	Args: cobra.ExactArgs(1),
	RunE: runChart3D,
}

func init() {
	for _, c := range []*cobra.Command{chart2DCmd, chart3DCmd} {
		c.Flags().StringVar(&povFlag, "pov", "earth", "Point of view (earth, exoplanet)")
		c.Flags().StringVarP(&outFlag, "out", "o", "", "Output file")
	}

	chart2DCmd.Flags().Float64Var(&fovFlag, "fov", 0, "Field of view in degrees (default from config)")
	chart2DCmd.Flags().Float64Var(&magFlag, "mag", 0, "Faintest magnitude shown (default from config)")
	chart2DCmd.Flags().Float64Var(&starSizeFlag, "star-size", 0, "Marker scale (default from config)")
	chart2DCmd.Flags().IntVar(&widthFlag, "width", 0, "Output width in pixels or cells (default: image 1000, terminal width)")
	chart2DCmd.Flags().IntVar(&heightFlag, "height", 0, "Output height in pixels or cells (default: image 800, terminal height)")

	chart3DCmd.Flags().IntVar(&maxPointsFlag, "max-points", 0, "Maximum stars placed, 0 for all (default from config)")
	chart3DCmd.Flags().Float64Var(&perspectiveFlag, "perspective", 0, "Marker scale (default from config)")
}

// requestFromFlags overlays explicitly set flags on the configured defaults.
func requestFromFlags(cmd *cobra.Command, target string) (chart.ViewRequest, error) {
	req := baseRequest(target)
	pov, err := catalog.ParsePOV(povFlag)
	if err != nil {
		return chart.ViewRequest{}, err
	}
	req.POV = pov

	flags := cmd.Flags()
	if flags.Changed("fov") {
		req.FOV = fovFlag
	}
	if flags.Changed("mag") {
		req.MagnitudeLimit = magFlag
	}
	if flags.Changed("star-size") {
		req.StarSize = starSizeFlag
	}
	if flags.Changed("max-points") {
		req.MaxPoints = maxPointsFlag
	}
	if flags.Changed("perspective") {
		req.PerspectiveSize = perspectiveFlag
	}
	return req, nil
}

func runChart2D(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	svc, _, err := newService()
	if err != nil {
		return err
	}

	c, err := svc.Build2D(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outFlag == "" {
		fmt.Fprintln(out, terminalCanvas().Render(c))
		return nil
	}

	if ext := strings.ToLower(filepath.Ext(outFlag)); ext != ".png" {
		return fmt.Errorf("unsupported 2D output %q (use .png)", ext)
	}
	p := render.DefaultPNG
	if widthFlag > 0 {
		p.Width = widthFlag
	}
	if heightFlag > 0 {
		p.Height = heightFlag
	}
	if err := p.WriteFile(outFlag, c); err != nil {
		return fmt.Errorf("write %s: %w", outFlag, err)
	}
	fmt.Fprintf(out, "Wrote %s (%d stars)\n", outFlag, c.Len())
	return nil
}

// terminalCanvas sizes the canvas to stdout and drops styling when stdout is
// not a terminal.
func terminalCanvas() render.Canvas {
	cv := render.Canvas{Width: 80, Height: 24}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		cv.Plain = true
	} else if w, h, err := term.GetSize(fd); err == nil {
		cv.Width, cv.Height = w, h-1
	}
	if widthFlag > 0 {
		cv.Width = widthFlag
	}
	if heightFlag > 0 {
		cv.Height = heightFlag
	}
	return cv
}

func runChart3D(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	svc, _, err := newService()
	if err != nil {
		return err
	}

	c, err := svc.Build3D(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outFlag == "" {
		printSummary3D(out, c)
		return nil
	}

	fig := render.NewFigure(c)
	var encode func(io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(outFlag)); ext {
	case ".json":
		encode = fig.Encode
	case ".html", ".htm":
		encode = fig.EncodeHTML
	default:
		return fmt.Errorf("unsupported 3D output %q (use .json or .html)", ext)
	}

	f, err := os.Create(outFlag)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", outFlag, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (%d stars)\n", outFlag, c.Len())
	return nil
}

func printSummary3D(w io.Writer, c chart.Chart3D) {
	fmt.Fprintf(w, "%s\n", c.Title())
	fmt.Fprintf(w, "  run:       %s\n", c.RunID)
	fmt.Fprintf(w, "  origin:    %s\n", c.Origin.Label)
	fmt.Fprintf(w, "  %-10s (%.3f, %.3f, %.3f) pc\n", c.Other.Label+":", c.Other.Pos.X, c.Other.Pos.Y, c.Other.Pos.Z)
	fmt.Fprintf(w, "  stars:     %d\n", c.Len())
	fmt.Fprintf(w, "  mean dist: %.2f pc\n", c.MeanDistance)
	fmt.Fprintf(w, "  excluded:  %d (invalid distance %d, non-finite %d)\n",
		c.Excluded.Total(), c.Excluded.InvalidDistance, c.Excluded.NonFinite)

	n := min(c.Len(), 10)
	if n == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %-32s %10s %10s %10s %10s\n", "ID", "X", "Y", "Z", "Size")
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "  %-32s %10.3f %10.3f %10.3f %10.3g\n", c.IDs[i], c.X[i], c.Y[i], c.Z[i], c.Size[i])
	}
	if c.Len() > n {
		fmt.Fprintf(w, "  ... %d more\n", c.Len()-n)
	}
}
