package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-exosky/internal/catalog"
	"github.com/litescript/ls-exosky/internal/logging"
	"github.com/litescript/ls-exosky/internal/metrics"
)

// Chart kinds, used as metric labels.
const (
	Kind2D = "2d"
	Kind3D = "3d"
)

// Service builds charts from a registry and a loader. It keeps no state
// between calls, so a single value may serve concurrent builds.
type Service struct {
	Registry catalog.Registry
	Loader   catalog.Loader
	Log      *logging.Logger
}

// NewService returns a Service. A nil log discards output.
func NewService(registry catalog.Registry, loader catalog.Loader, log *logging.Logger) Service {
	if log == nil {
		log = logging.Discard()
	}
	return Service{Registry: registry, Loader: loader, Log: log}
}

// Build2D loads the target's rows and assembles a 2D chart.
func (s Service) Build2D(ctx context.Context, req ViewRequest) (c Chart2D, err error) {
	runID := uuid.NewString()
	log := s.logger().With("run", runID)
	start := time.Now()
	defer func() {
		metrics.ObserveChart(Kind2D, req.POV.String(), time.Since(start), err)
	}()

	target, rows, err := s.prepare(ctx, req, log)
	if err != nil {
		return Chart2D{}, err
	}

	c = Assemble2D(target, rows, req)
	c.RunID = runID

	metrics.AddExcluded(metrics.ReasonNonFinite, c.Excluded.NonFinite)
	if n := c.Excluded.NonFinite; n > 0 {
		log.Debug("excluded %d non-finite rows", n)
	}
	log.Info("2D chart for %s (%s): %d of %d stars in %v", target.Name, req.POV, c.Len(), len(rows), time.Since(start))
	return c, nil
}

// Build3D loads the target's rows and assembles a 3D chart.
func (s Service) Build3D(ctx context.Context, req ViewRequest) (c Chart3D, err error) {
	runID := uuid.NewString()
	log := s.logger().With("run", runID)
	start := time.Now()
	defer func() {
		metrics.ObserveChart(Kind3D, req.POV.String(), time.Since(start), err)
	}()

	target, rows, err := s.prepare(ctx, req, log)
	if err != nil {
		return Chart3D{}, err
	}

	c, err = Assemble3D(target, rows, req)
	if err != nil {
		log.Warn("3D chart for %s: %v", target.Name, err)
		return Chart3D{}, err
	}
	c.RunID = runID

	metrics.AddExcluded(metrics.ReasonInvalidDistance, c.Excluded.InvalidDistance)
	metrics.AddExcluded(metrics.ReasonNonFinite, c.Excluded.NonFinite)
	if n := c.Excluded.Total(); n > 0 {
		log.Debug("excluded %d rows (invalid distance %d, non-finite %d)",
			n, c.Excluded.InvalidDistance, c.Excluded.NonFinite)
	}
	log.Info("3D chart for %s (%s): %d of %d stars in %v", target.Name, req.POV, c.Len(), len(rows), time.Since(start))
	return c, nil
}

func (s Service) prepare(ctx context.Context, req ViewRequest, log *logging.Logger) (catalog.Target, []catalog.StarRecord, error) {
	if err := req.Validate(); err != nil {
		return catalog.Target{}, nil, err
	}
	if s.Registry == nil || s.Loader == nil {
		return catalog.Target{}, nil, fmt.Errorf("chart service not configured: %w", catalog.ErrDataUnavailable)
	}

	target, err := s.Registry.Lookup(req.Target)
	if err != nil {
		log.Warn("lookup %q: %v", req.Target, err)
		return catalog.Target{}, nil, fmt.Errorf("resolve target: %w", err)
	}

	rows, err := s.Loader.Load(ctx, target.Name, req.POV)
	if err != nil {
		log.Warn("load %s rows for %s: %v", req.POV, target.Name, err)
		return catalog.Target{}, nil, fmt.Errorf("load stars: %w", err)
	}
	log.Debug("loaded %d %s rows for %s", len(rows), req.POV, target.Name)
	return target, rows, nil
}

func (s Service) logger() *logging.Logger {
	if s.Log == nil {
		return logging.Discard()
	}
	return s.Log
}
