package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/litescript/ls-exosky/internal/catalog"
)

const testExoplanets = `pl_name,ra,dec,sy_plx,sy_dist
Test b,10,5,100,10
Far b,200,-30,,50
`

const testStarsEarth = `designation,ra,dec,parallax,phot_g_mean_mag,distance_gspphot
Gaia DR3 1,10,5,100,5,
Gaia DR3 2,200,5,50,8,
Gaia DR3 3,12,6,,4,
`

const testStarsExo = `designation,ra,dec,parallax,phot_g_mean_mag,distance_gspphot
Gaia DR3 9,11,5,,6,10.2
`

// setupData writes a small catalog and config under a temp dir and returns
// the config path.
func setupData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"query_exoplanets.csv": testExoplanets,
		"earth/test-b.csv":     testStarsEarth,
		"exo/test-b.csv":       testStarsExo,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath := filepath.Join(dir, "exosky.yaml")
	yaml := `data:
  dir: ` + dir + `
  exoplanets_file: query_exoplanets.csv
  targets:
    Test b:
      earth_pov: earth/test-b.csv
      exoplanet_pov: exo/test-b.csv
logging:
  level: error
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "ls-exosky v") {
		t.Errorf("output = %q", out)
	}
}

func TestTargetsCommand(t *testing.T) {
	cfgPath := setupData(t)

	out, err := run(t, "--config", cfgPath, "targets")
	if err != nil {
		t.Fatalf("targets: %v", err)
	}
	if !strings.Contains(out, "Test b") || strings.Contains(out, "Far b") {
		t.Errorf("unexpected listing:\n%s", out)
	}

	out, err = run(t, "--config", cfgPath, "targets", "--all")
	if err != nil {
		t.Fatalf("targets --all: %v", err)
	}
	if !strings.Contains(out, "Far b") {
		t.Errorf("--all missing Far b:\n%s", out)
	}
}

func TestChart2DCommand_Terminal(t *testing.T) {
	cfgPath := setupData(t)

	out, err := run(t, "--config", cfgPath, "chart2d", "test b", "--fov", "20", "--width", "40", "--height", "12")
	if err != nil {
		t.Fatalf("chart2d: %v", err)
	}
	if !strings.Contains(out, "Star Chart from Earth with fov of 20") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "2 stars") {
		t.Errorf("expected 2 stars in view:\n%s", out)
	}
}

func TestChart2DCommand_PNG(t *testing.T) {
	cfgPath := setupData(t)
	pngPath := filepath.Join(t.TempDir(), "chart.png")

	out, err := run(t, "--config", cfgPath, "chart2d", "Test b", "-o", pngPath, "--width", "200", "--height", "150")
	if err != nil {
		t.Fatalf("chart2d: %v", err)
	}
	if !strings.Contains(out, "Wrote "+pngPath) {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}

	if _, err := run(t, "--config", cfgPath, "chart2d", "Test b", "-o", "chart.gif"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestChart3DCommand(t *testing.T) {
	cfgPath := setupData(t)

	out, err := run(t, "--config", cfgPath, "chart3d", "Test b")
	if err != nil {
		t.Fatalf("chart3d: %v", err)
	}
	// Star 3 has no distance or parallax.
	if !strings.Contains(out, "stars:     2") || !strings.Contains(out, "invalid distance 1") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "Gaia DR3 1") || !strings.Contains(chart3DCmd.Long, "table of the first ten stars") {
		t.Errorf("summary table missing or help out of date:\n%s", out)
	}

	figPath := filepath.Join(t.TempDir(), "fig.json")
	if _, err := run(t, "--config", cfgPath, "chart3d", "Test b", "--pov", "exoplanet", "-o", figPath); err != nil {
		t.Fatalf("chart3d json: %v", err)
	}
	data, err := os.ReadFile(figPath)
	if err != nil {
		t.Fatal(err)
	}
	var fig struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &fig); err != nil {
		t.Fatalf("invalid figure JSON: %v", err)
	}
	if len(fig.Data) != 3 || fig.Data[1].Name != "Test b" || fig.Data[2].Name != "Earth" {
		t.Errorf("unexpected traces %+v", fig.Data)
	}
}

func TestChartCommand_UnknownTarget(t *testing.T) {
	cfgPath := setupData(t)

	_, err := run(t, "--config", cfgPath, "chart2d", "Nope b")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestChartCommand_UnknownPOV(t *testing.T) {
	cfgPath := setupData(t)

	for _, args := range [][]string{
		{"chart2d", "Test b", "--pov", "exoplanets"},
		{"chart3d", "Test b", "--pov", "mars"},
		{"fetch", "stars", "Test b", "--pov", "exoplanets"},
	} {
		t.Run(strings.Join(args[:len(args)-2], " "), func(t *testing.T) {
			out, err := run(t, append([]string{"--config", cfgPath}, args...)...)
			if !errors.Is(err, catalog.ErrUnknownPOV) {
				t.Fatalf("error = %v, want ErrUnknownPOV", err)
			}
			if strings.Contains(out, "Star Chart") || strings.Contains(out, "Wrote") {
				t.Errorf("chart produced despite bad --pov:\n%s", out)
			}
		})
	}
}

func TestInitCommand(t *testing.T) {
	cfgPath := setupData(t)
	path := filepath.Join(t.TempDir(), "new", "exosky.yaml")

	if _, err := run(t, "--config", cfgPath, "init", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := run(t, "--config", cfgPath, "init", path); err == nil {
		t.Error("expected error when the file exists")
	}
}
