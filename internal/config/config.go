// Package config loads ls-exosky settings from YAML files and EXOSKY_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-exosky/internal/catalog"
)

// EnvPrefix prefixes environment overrides (e.g., EXOSKY_VIEW_FOV).
const EnvPrefix = "EXOSKY"

// Config holds all settings.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	View    ViewConfig    `yaml:"view" mapstructure:"view"`
	Archive ArchiveConfig `yaml:"archive" mapstructure:"archive"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// DataConfig locates the catalog exports.
type DataConfig struct {
	Dir            string                    `yaml:"dir" mapstructure:"dir"`
	ExoplanetsFile string                    `yaml:"exoplanets_file" mapstructure:"exoplanets_file"`
	Targets        map[string]catalog.Source `yaml:"targets" mapstructure:"targets"`
}

// ViewConfig holds default chart parameters.
type ViewConfig struct {
	FOV             float64 `yaml:"fov" mapstructure:"fov"`
	MagnitudeLimit  float64 `yaml:"magnitude_limit" mapstructure:"magnitude_limit"`
	StarSize        float64 `yaml:"star_size" mapstructure:"star_size"`
	MaxPoints       int     `yaml:"max_points" mapstructure:"max_points"`
	PerspectiveSize float64 `yaml:"perspective_size" mapstructure:"perspective_size"`
}

// ArchiveConfig holds the remote TAP endpoints used to refresh exports.
type ArchiveConfig struct {
	GaiaURL      string        `yaml:"gaia_url" mapstructure:"gaia_url"`
	ExoplanetURL string        `yaml:"exoplanet_url" mapstructure:"exoplanet_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

// MetricsConfig holds the Prometheus listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Default returns a Config with the bundled targets.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:            "resources/table_data",
			ExoplanetsFile: "query_exoplanets.csv.gz",
			Targets: map[string]catalog.Source{
				"TOI-700 d": {
					EarthPOV:     "stars_from_earth_pov_radius90/query_stars_earth_to_toi-700d_cone.csv.gz",
					ExoplanetPOV: "stars_from_exoplanet_pov_radius90/query_stars_from_toi-700d_cone.csv.gz",
				},
				"Ross 128 b": {
					EarthPOV:     "stars_from_earth_pov_radius90/query_stars_earth_to_ross-128b_cone.csv.gz",
					ExoplanetPOV: "stars_from_exoplanet_pov_radius90/query_stars_from_ross-128b_cone.csv.gz",
				},
				"TRAPPIST-1 e": {
					EarthPOV:     "stars_from_earth_pov_radius90/query_stars_earth_to_trappist-1e_cone.csv.gz",
					ExoplanetPOV: "stars_from_exoplanet_pov_radius90/query_stars_from_trappist-1e_cone.csv.gz",
				},
			},
		},
		View: ViewConfig{
			FOV:             30,
			MagnitudeLimit:  8,
			StarSize:        100,
			MaxPoints:       5000,
			PerspectiveSize: 100,
		},
		Archive: ArchiveConfig{
			GaiaURL:      "https://gea.esac.esa.int/tap-server/tap/sync",
			ExoplanetURL: "https://exoplanetarchive.ipac.caltech.edu/TAP/sync",
			Timeout:      2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration with priority: defaults < file < environment.
// An empty path searches ./exosky.yaml and the user config directory; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("exosky")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Target sources replace the defaults wholesale rather than merging
	if len(cfg.Data.Targets) == 0 {
		cfg.Data.Targets = Default().Data.Targets
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data.dir", d.Data.Dir)
	v.SetDefault("data.exoplanets_file", d.Data.ExoplanetsFile)
	v.SetDefault("view.fov", d.View.FOV)
	v.SetDefault("view.magnitude_limit", d.View.MagnitudeLimit)
	v.SetDefault("view.star_size", d.View.StarSize)
	v.SetDefault("view.max_points", d.View.MaxPoints)
	v.SetDefault("view.perspective_size", d.View.PerspectiveSize)
	v.SetDefault("archive.gaia_url", d.Archive.GaiaURL)
	v.SetDefault("archive.exoplanet_url", d.Archive.ExoplanetURL)
	v.SetDefault("archive.timeout", d.Archive.Timeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.View.FOV <= 0 {
		return fmt.Errorf("view.fov must be positive, got %v", c.View.FOV)
	}
	if c.View.MaxPoints < 0 {
		return fmt.Errorf("view.max_points cannot be negative, got %d", c.View.MaxPoints)
	}
	if c.Archive.Timeout <= 0 {
		return fmt.Errorf("archive.timeout must be positive, got %v", c.Archive.Timeout)
	}
	if c.Data.ExoplanetsFile == "" {
		return fmt.Errorf("data.exoplanets_file cannot be empty")
	}
	return nil
}

// ExoplanetsPath returns the exoplanet export path resolved against Data.Dir.
func (c *Config) ExoplanetsPath() string {
	return c.resolve(c.Data.ExoplanetsFile)
}

// StarsPath returns the star export path for a target and POV, resolved
// against Data.Dir. It returns "" when the target has no source.
func (c *Config) StarsPath(target string, pov catalog.POV) string {
	for name, src := range c.Data.Targets {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(target)) {
			if p := src.Path(pov); p != "" {
				return c.resolve(p)
			}
		}
	}
	return ""
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Data.Dir == "" {
		return p
	}
	return filepath.Join(c.Data.Dir, p)
}

// Dir returns the per-user config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "ls-exosky"), nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
