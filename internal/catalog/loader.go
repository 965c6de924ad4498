package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

var (
	// ErrNotFound is returned for unknown target identifiers.
	ErrNotFound = errors.New("not found")

	// ErrDataUnavailable is returned when the backing store cannot be read.
	ErrDataUnavailable = errors.New("data unavailable")
)

// Loader supplies the star rows associated with a target.
type Loader interface {
	// Load returns the complete row set for a target seen from pov.
	Load(ctx context.Context, target string, pov POV) ([]StarRecord, error)
}

// Source names the exports holding a target's star rows, one per POV.
type Source struct {
	EarthPOV     string `yaml:"earth_pov" mapstructure:"earth_pov"`
	ExoplanetPOV string `yaml:"exoplanet_pov" mapstructure:"exoplanet_pov"`
}

// Path returns the export for pov.
func (s Source) Path(pov POV) string {
	if pov == POVExoplanet {
		return s.ExoplanetPOV
	}
	return s.EarthPOV
}

// FileLoader reads star exports from disk. Relative paths resolve against Dir.
// It holds no mutable state and is safe for concurrent use.
type FileLoader struct {
	dir     string
	sources map[string]Source
	names   []string
}

// NewFileLoader creates a loader for the given target sources.
func NewFileLoader(dir string, sources map[string]Source) *FileLoader {
	m := make(map[string]Source, len(sources))
	names := make([]string, 0, len(sources))
	for name, src := range sources {
		m[normalizeName(name)] = src
		names = append(names, name)
	}
	sort.Strings(names)
	return &FileLoader{dir: dir, sources: m, names: names}
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, target string, pov POV) ([]StarRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, ok := l.sources[normalizeName(target)]
	if !ok {
		return nil, fmt.Errorf("star source for %q: %w", target, ErrNotFound)
	}
	path := src.Path(pov)
	if path == "" {
		return nil, fmt.Errorf("no %s export for %q: %w", pov, target, ErrDataUnavailable)
	}
	if !filepath.IsAbs(path) && l.dir != "" {
		path = filepath.Join(l.dir, path)
	}

	stars, err := ReadStarsFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("open %s: %w: %w", path, ErrDataUnavailable, err)
		}
		return nil, fmt.Errorf("read %s: %w: %w", path, ErrDataUnavailable, err)
	}
	return stars, nil
}

// Targets returns the names with a configured source, sorted.
func (l *FileLoader) Targets() []string {
	names := make([]string, len(l.names))
	copy(names, l.names)
	return names
}

// MemoryLoader serves fixed row sets, keyed by target and POV.
type MemoryLoader map[string]map[POV][]StarRecord

// Load implements Loader.
func (m MemoryLoader) Load(ctx context.Context, target string, pov POV) ([]StarRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for name, sets := range m {
		if normalizeName(name) != normalizeName(target) {
			continue
		}
		stars, ok := sets[pov]
		if !ok {
			return nil, fmt.Errorf("no %s rows for %q: %w", pov, target, ErrDataUnavailable)
		}
		out := make([]StarRecord, len(stars))
		copy(out, stars)
		return out, nil
	}
	return nil, fmt.Errorf("star source for %q: %w", target, ErrNotFound)
}
