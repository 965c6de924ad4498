package main

import (
	"errors"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-exosky/internal/catalog"
)

var targetsAll bool

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List exoplanets with star exports",
	Long: `List the exoplanets that have star exports configured under data.targets,
with the host position from the exoplanet table. With --all every exoplanet in
the table is listed, nearest first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := catalog.LoadTargetTable(cfg.ExoplanetsPath())
		if err != nil {
			return fmt.Errorf("%w (run `ls-exosky fetch targets` to download it)", err)
		}

		names := catalog.NewFileLoader(cfg.Data.Dir, cfg.Data.Targets).Targets()
		if targetsAll {
			names = registry.Names()
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRA\tDEC\tDIST (pc)")
		for _, name := range names {
			t, err := registry.Lookup(name)
			if errors.Is(err, catalog.ErrNotFound) {
				logger.Warn("target %q has star exports but no exoplanet row", name)
				fmt.Fprintf(w, "%s\t-\t-\t-\n", name)
				continue
			}
			dist, err := t.ResolveDistance()
			if err != nil {
				dist = math.NaN()
			}
			fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.3f\n", t.Name, t.RA, t.Dec, dist)
		}
		return w.Flush()
	},
}

func init() {
	targetsCmd.Flags().BoolVar(&targetsAll, "all", false, "List every exoplanet in the table")
}
