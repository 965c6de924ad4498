package catalog

import (
	"fmt"
	"strings"
)

// Registry resolves target names to host-system records.
type Registry interface {
	Lookup(name string) (Target, error)
	Names() []string
}

// TargetTable is an immutable Registry built from exoplanet records.
type TargetTable struct {
	targets []Target
	byName  map[string]int
}

// NewTargetTable indexes targets by case-insensitive name. Later duplicates
// are ignored.
func NewTargetTable(targets []Target) *TargetTable {
	t := &TargetTable{
		targets: make([]Target, 0, len(targets)),
		byName:  make(map[string]int, len(targets)),
	}
	for _, tgt := range targets {
		key := normalizeName(tgt.Name)
		if _, dup := t.byName[key]; dup {
			continue
		}
		t.byName[key] = len(t.targets)
		t.targets = append(t.targets, tgt)
	}
	return t
}

// LoadTargetTable reads an exoplanet export into a TargetTable.
func LoadTargetTable(path string) (*TargetTable, error) {
	targets, err := ReadTargetsFile(path)
	if err != nil {
		return nil, fmt.Errorf("load targets from %s: %w: %w", path, ErrDataUnavailable, err)
	}
	return NewTargetTable(targets), nil
}

// Lookup implements Registry.
func (t *TargetTable) Lookup(name string) (Target, error) {
	i, ok := t.byName[normalizeName(name)]
	if !ok {
		return Target{}, fmt.Errorf("target %q: %w", name, ErrNotFound)
	}
	return t.targets[i], nil
}

// Names implements Registry. Names are returned in load order.
func (t *TargetTable) Names() []string {
	names := make([]string, len(t.targets))
	for i, tgt := range t.targets {
		names[i] = tgt.Name
	}
	return names
}

// Len returns the number of targets.
func (t *TargetTable) Len() int {
	return len(t.targets)
}

// normalizeName folds case and surrounding space for matching.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
