package chart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/litescript/ls-exosky/internal/catalog"
)

func testService() Service {
	registry := catalog.NewTargetTable([]catalog.Target{
		{Name: "TOI-700 d", RA: 97.1, Dec: -65.6, Distance: 31.1, Parallax: nan},
		{Name: "Ross 128 b", RA: 176.9, Dec: 0.8, Distance: 3.37, Parallax: nan},
	})
	loader := catalog.MemoryLoader{
		"TOI-700 d": {
			catalog.POVEarth: {
				star("near", 97.0, -65.0, 100, nan, 4),
				star("far", 20, 10, 100, nan, 4),
			},
			catalog.POVExoplanet: {
				star("x", 97.0, -65.0, nan, 30, 4),
			},
		},
	}
	return NewService(registry, loader, nil)
}

func TestService_Build2D(t *testing.T) {
	svc := testService()

	c, err := svc.Build2D(context.Background(), DefaultRequest("toi-700 D"))
	if err != nil {
		t.Fatalf("Build2D: %v", err)
	}
	if c.Target != "TOI-700 d" {
		t.Errorf("target = %q, want registry name", c.Target)
	}
	if c.Len() != 1 || c.IDs[0] != "near" {
		t.Errorf("IDs = %v, want [near]", c.IDs)
	}
	if _, err := uuid.Parse(c.RunID); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", c.RunID, err)
	}
}

func TestService_Build3D(t *testing.T) {
	svc := testService()
	req := DefaultRequest("TOI-700 d")
	req.POV = catalog.POVExoplanet

	c, err := svc.Build3D(context.Background(), req)
	if err != nil {
		t.Fatalf("Build3D: %v", err)
	}
	if c.Len() != 1 || c.Origin.Label != "TOI-700 d" {
		t.Errorf("unexpected chart: len %d origin %+v", c.Len(), c.Origin)
	}
	if c.RunID == "" {
		t.Error("missing run ID")
	}
}

func TestService_RunIDsDiffer(t *testing.T) {
	svc := testService()
	a, _ := svc.Build2D(context.Background(), DefaultRequest("TOI-700 d"))
	b, _ := svc.Build2D(context.Background(), DefaultRequest("TOI-700 d"))
	if a.RunID == b.RunID {
		t.Errorf("expected distinct run IDs, both %q", a.RunID)
	}
}

func TestService_Errors(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  ViewRequest
		want error
	}{
		{"unknown target", DefaultRequest("Kepler-452 b"), catalog.ErrNotFound},
		{"no loader rows", DefaultRequest("Ross 128 b"), catalog.ErrNotFound},
		{"invalid request", ViewRequest{Target: "TOI-700 d"}, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Build2D(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Build2D error = %v, want %v", err, tt.want)
			}
			if _, err := svc.Build3D(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Build3D error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_MissingPOVRows(t *testing.T) {
	registry := catalog.NewTargetTable([]catalog.Target{{Name: "A", RA: 1, Dec: 1, Distance: 5, Parallax: nan}})
	loader := catalog.MemoryLoader{"A": {catalog.POVEarth: nil}}
	svc := NewService(registry, loader, nil)

	req := DefaultRequest("A")
	req.POV = catalog.POVExoplanet
	if _, err := svc.Build3D(context.Background(), req); !errors.Is(err, catalog.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestService_Unconfigured(t *testing.T) {
	var svc Service
	if _, err := svc.Build2D(context.Background(), DefaultRequest("A")); !errors.Is(err, catalog.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestService_Canceled(t *testing.T) {
	svc := testService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Build2D(ctx, DefaultRequest("TOI-700 d")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
