// Command ls-exosky draws star charts as seen from Earth or from a chosen
// exoplanet.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-exosky/internal/catalog"
	"github.com/litescript/ls-exosky/internal/chart"
	"github.com/litescript/ls-exosky/internal/config"
	"github.com/litescript/ls-exosky/internal/logging"
	"github.com/litescript/ls-exosky/internal/metrics"
	"github.com/litescript/ls-exosky/internal/version"
)

// Global flags
var (
	cfgFile     string
	logLevel    string
	metricsAddr string
)

// Loaded in PersistentPreRunE
var (
	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ls-exosky",
	Short: "Exoplanet star charts",
	Long: `ls-exosky charts the stars along the line of sight to a known exoplanet,
either from Earth or from the exoplanet itself.

Star rows come from Gaia DR3 cone exports and exoplanet hosts from the NASA
Exoplanet Archive. Both can be refreshed with the fetch commands.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("metrics-addr") {
			cfg.Metrics.Addr = metricsAddr
		}

		logger = newLogger(os.Stderr)

		if cfg.Metrics.Addr != "" {
			serveMetrics(cmd.Context(), cfg.Metrics.Addr)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./exosky.yaml, then the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9090)")

	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(chart2DCmd)
	rootCmd.AddCommand(chart3DCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the configured logger writing to console, if non-nil, and
// to the configured log file.
func newLogger(console io.Writer) *logging.Logger {
	var file logging.FileConfig
	if cfg.Logging.File != "" {
		file = logging.DefaultFileConfig(cfg.Logging.File)
	}
	return logging.NewWithOptions(logging.ParseLevel(cfg.Logging.Level), console, file)
}

// serveMetrics exposes /metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}

// newService wires the chart service from the configuration.
func newService() (chart.Service, *catalog.FileLoader, error) {
	registry, err := catalog.LoadTargetTable(cfg.ExoplanetsPath())
	if err != nil {
		return chart.Service{}, nil, fmt.Errorf("%w (run `ls-exosky fetch targets` to download it)", err)
	}
	logger.Debug("loaded %d exoplanets from %s", registry.Len(), cfg.ExoplanetsPath())

	loader := catalog.NewFileLoader(cfg.Data.Dir, cfg.Data.Targets)
	return chart.NewService(registry, loader, logger), loader, nil
}

// baseRequest returns the configured view defaults for target.
func baseRequest(target string) chart.ViewRequest {
	return chart.ViewRequest{
		Target:          target,
		POV:             catalog.POVEarth,
		FOV:             cfg.View.FOV,
		MagnitudeLimit:  cfg.View.MagnitudeLimit,
		StarSize:        cfg.View.StarSize,
		MaxPoints:       cfg.View.MaxPoints,
		PerspectiveSize: cfg.View.PerspectiveSize,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Write the default configuration as YAML. Without a path the file goes to
exosky.yaml in the user config directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			dir, err := config.Dir()
			if err != nil {
				return fmt.Errorf("locate config directory: %w", err)
			}
			path = filepath.Join(dir, "exosky.yaml")
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
