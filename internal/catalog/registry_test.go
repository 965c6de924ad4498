package catalog

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func TestTargetTable_Lookup(t *testing.T) {
	table := NewTargetTable([]Target{
		{Name: "TOI-700 d", RA: 97.1, Dec: -65.6, Distance: 31.1},
		{Name: "Ross 128 b", RA: 176.9, Dec: 0.8, Distance: 3.37},
		{Name: "toi-700 D", RA: 0, Dec: 0},
	})

	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (duplicate ignored)", table.Len())
	}

	tests := []struct {
		input string
		want  string
	}{
		{"TOI-700 d", "TOI-700 d"},
		{"  ross 128 B ", "Ross 128 b"},
	}
	for _, tc := range tests {
		got, err := table.Lookup(tc.input)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tc.input, err)
			continue
		}
		if got.Name != tc.want {
			t.Errorf("Lookup(%q) = %q, want %q", tc.input, got.Name, tc.want)
		}
	}

	if got, _ := table.Lookup("TOI-700 d"); got.RA != 97.1 {
		t.Errorf("duplicate overwrote first entry: %+v", got)
	}

	if _, err := table.Lookup("Kepler-22 b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTargetTable_Names(t *testing.T) {
	table := NewTargetTable([]Target{{Name: "b"}, {Name: "a"}})
	names := table.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("Names() = %v, want load order", names)
	}
}

func TestLoadTargetTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query_exoplanets.csv.gz")
	err := WriteExportFile(path, func(w io.Writer) error {
		return WriteTargets(w, []Target{{Name: "TRAPPIST-1 e", RA: 346.6, Dec: -5.04, Parallax: 80.2, Distance: 12.47}})
	})
	if err != nil {
		t.Fatal(err)
	}

	table, err := LoadTargetTable(path)
	if err != nil {
		t.Fatalf("LoadTargetTable: %v", err)
	}
	if _, err := table.Lookup("trappist-1 e"); err != nil {
		t.Errorf("Lookup: %v", err)
	}

	if _, err := LoadTargetTable(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}
