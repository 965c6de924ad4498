package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-exosky/internal/archive"
	"github.com/litescript/ls-exosky/internal/catalog"
)

var fetchOut string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Refresh catalog exports from the remote archives",
}

var fetchTargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Download the exoplanet table from the NASA Exoplanet Archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := newArchiveClient().QueryTargets(cmd.Context())
		if err != nil {
			return err
		}

		path := fetchOut
		if path == "" {
			path = cfg.ExoplanetsPath()
		}
		if err := writeExport(path, func(w io.Writer) error {
			return catalog.WriteTargets(w, targets)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d exoplanets to %s\n", len(targets), path)
		return nil
	},
}

var fetchStarsCmd = &cobra.Command{
	Use:   "stars <target>",
	Short: "Download a target's Gaia cone for one point of view",
	Long: `Run the Gaia DR3 cone search for a target. From Earth the cone keeps bright
stars with a parallax; from the exoplanet it keeps stars within a light year of
the target's distance.

The export is written to the path configured under data.targets unless --out
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pov, err := catalog.ParsePOV(povFlag)
		if err != nil {
			return err
		}

		registry, err := catalog.LoadTargetTable(cfg.ExoplanetsPath())
		if err != nil {
			return fmt.Errorf("%w (run `ls-exosky fetch targets` first)", err)
		}
		target, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}

		path := fetchOut
		if path == "" {
			path = cfg.StarsPath(target.Name, pov)
		}
		if path == "" {
			return fmt.Errorf("no %s export configured for %q; set data.targets in the config or pass --out", pov, target.Name)
		}

		stars, err := newArchiveClient().QueryStars(cmd.Context(), target, pov)
		if err != nil {
			return err
		}
		if err := writeExport(path, func(w io.Writer) error {
			return catalog.WriteStars(w, stars)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d stars to %s\n", len(stars), path)
		return nil
	},
}

func init() {
	fetchCmd.PersistentFlags().StringVarP(&fetchOut, "out", "o", "", "Output file (default from config)")
	fetchStarsCmd.Flags().StringVar(&povFlag, "pov", "earth", "Point of view (earth, exoplanet)")

	fetchCmd.AddCommand(fetchTargetsCmd)
	fetchCmd.AddCommand(fetchStarsCmd)
}

func newArchiveClient() *archive.Client {
	return archive.NewClient(
		archive.WithGaiaURL(cfg.Archive.GaiaURL),
		archive.WithExoplanetURL(cfg.Archive.ExoplanetURL),
		archive.WithTimeout(cfg.Archive.Timeout),
		archive.WithLogger(logger),
	)
}

func writeExport(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	return catalog.WriteExportFile(path, write)
}
