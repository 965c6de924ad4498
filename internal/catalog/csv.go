package catalog

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Star export columns (Gaia DR3 gaia_source).
const (
	ColDesignation = "designation"
	ColRA          = "ra"
	ColDec         = "dec"
	ColParallax    = "parallax"
	ColMag         = "phot_g_mean_mag"
	ColDistance    = "distance_gspphot"
)

// Target export columns (NASA Exoplanet Archive pscomppars).
const (
	ColPlanetName     = "pl_name"
	ColSystemParallax = "sy_plx"
	ColSystemDistance = "sy_dist"
)

// StarColumns is the column order written by WriteStars.
var StarColumns = []string{ColDesignation, ColRA, ColDec, ColParallax, ColMag, ColDistance}

// TargetColumns is the column order written by WriteTargets.
var TargetColumns = []string{ColPlanetName, ColRA, ColDec, ColSystemParallax, ColSystemDistance}

// ErrMalformed is returned for exports that cannot be parsed.
var ErrMalformed = errors.New("malformed catalog export")

// header maps column names to indexes.
type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	cols, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty export: %w", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	h := make(header, len(cols))
	for i, c := range cols {
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("missing column %q: %w", name, ErrMalformed)
		}
	}
	return h, nil
}

func (h header) text(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// float parses a numeric cell. Empty and masked cells are absent (NaN).
func (h header) float(row []string, name string) (float64, error) {
	s := h.text(row, name)
	switch strings.ToLower(s) {
	case "", "nan", "--", "null":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return f, nil
}

// ReadStars parses a star export. Column order is free; ra and dec are required.
func ReadStars(r io.Reader) ([]StarRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	h, err := readHeader(cr, ColRA, ColDec)
	if err != nil {
		return nil, err
	}

	var stars []StarRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s, err := parseStar(h, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", line, ErrMalformed, err)
		}
		stars = append(stars, s)
	}

	return stars, nil
}

func parseStar(h header, row []string) (StarRecord, error) {
	s := StarRecord{ID: h.text(row, ColDesignation)}

	var err error
	if s.RA, err = h.float(row, ColRA); err != nil {
		return s, err
	}
	if s.Dec, err = h.float(row, ColDec); err != nil {
		return s, err
	}
	if math.IsNaN(s.RA) || math.IsNaN(s.Dec) {
		return s, fmt.Errorf("missing ra/dec")
	}
	if s.Parallax, err = h.float(row, ColParallax); err != nil {
		return s, err
	}
	if s.Mag, err = h.float(row, ColMag); err != nil {
		return s, err
	}
	if s.Distance, err = h.float(row, ColDistance); err != nil {
		return s, err
	}
	return s, nil
}

// ReadTargets parses an exoplanet export.
func ReadTargets(r io.Reader) ([]Target, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	h, err := readHeader(cr, ColPlanetName, ColRA, ColDec)
	if err != nil {
		return nil, err
	}

	var targets []Target
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		t := Target{Name: h.text(row, ColPlanetName)}
		if t.Name == "" {
			return nil, fmt.Errorf("line %d: empty %s: %w", line, ColPlanetName, ErrMalformed)
		}
		fields := []struct {
			dst  *float64
			name string
		}{
			{&t.RA, ColRA},
			{&t.Dec, ColDec},
			{&t.Parallax, ColSystemParallax},
			{&t.Distance, ColSystemDistance},
		}
		for _, f := range fields {
			if *f.dst, err = h.float(row, f.name); err != nil {
				return nil, fmt.Errorf("line %d: %w: %w", line, ErrMalformed, err)
			}
		}
		targets = append(targets, t)
	}

	return targets, nil
}

// WriteStars writes records in StarColumns order. Absent values are empty cells.
func WriteStars(w io.Writer, stars []StarRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StarColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range stars {
		row := []string{s.ID, formatFloat(s.RA), formatFloat(s.Dec),
			formatFloat(s.Parallax), formatFloat(s.Mag), formatFloat(s.Distance)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTargets writes targets in TargetColumns order.
func WriteTargets(w io.Writer, targets []Target) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TargetColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range targets {
		row := []string{t.Name, formatFloat(t.RA), formatFloat(t.Dec),
			formatFloat(t.Parallax), formatFloat(t.Distance)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", t.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// gzipFile closes both the gzip stream and the underlying file.
type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// openExport opens a file, transparently decompressing *.gz.
func openExport(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gunzip %s: %w", path, err)
	}
	return gzipFile{Reader: zr, f: f}, nil
}

// ReadStarsFile reads a star export from disk.
func ReadStarsFile(path string) ([]StarRecord, error) {
	rc, err := openExport(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadStars(rc)
}

// ReadTargetsFile reads an exoplanet export from disk.
func ReadTargetsFile(path string) ([]Target, error) {
	rc, err := openExport(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadTargets(rc)
}

// WriteExportFile streams write into a temporary file next to path,
// gzip-compressing when the name ends in .gz, and renames it over path once
// everything is flushed. A failed write leaves any previous export in place.
func WriteExportFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err := writeExport(f, path, write); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func writeExport(w io.Writer, path string, write func(io.Writer) error) error {
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return write(w)
	}

	zw := gzip.NewWriter(w)
	if err := write(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
