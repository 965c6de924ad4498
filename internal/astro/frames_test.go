package astro

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestShift_ZeroOrigin(t *testing.T) {
	points := []r3.Vec{
		{X: 1, Y: 2, Z: 3},
		{X: -4.5, Y: 0, Z: 9},
		{},
	}

	got := Shift(points, r3.Vec{})
	if len(got) != len(points) {
		t.Fatalf("len = %d, want %d", len(got), len(points))
	}
	for i := range points {
		if got[i] != points[i] {
			t.Errorf("point %d changed: got %+v, want %+v", i, got[i], points[i])
		}
	}
}

func TestShift_DoesNotMutateInput(t *testing.T) {
	points := []r3.Vec{{X: 1, Y: 1, Z: 1}}
	_ = Shift(points, r3.Vec{X: 1})
	if points[0] != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("input mutated: %+v", points[0])
	}
}

func TestRecenter_OnOwnPosition(t *testing.T) {
	star := Spherical{RAdeg: 316.2, DecDeg: -65.6, DistPc: 31.1}
	other := Spherical{RAdeg: 10, DecDeg: 5, DistPc: 10}

	got := Recenter([]Spherical{other, star}, star)
	if r3.Norm(got[1]) > 1e-9 {
		t.Errorf("star recentered on itself = %+v, want origin", got[1])
	}
	if r3.Norm(got[0]) == 0 {
		t.Error("other star collapsed onto origin")
	}
}

func TestRecenter_Earth(t *testing.T) {
	in := []Spherical{{RAdeg: 10, DecDeg: 5, DistPc: 10}}
	got := Recenter(in, Earth)
	want := ToCartesian(in[0])
	if r3.Norm(r3.Sub(got[0], want)) != 0 {
		t.Errorf("Recenter on Earth = %+v, want %+v", got[0], want)
	}
}

func TestShift_PropagatesNonFinite(t *testing.T) {
	got := Shift([]r3.Vec{{X: math.NaN()}}, r3.Vec{X: 1})
	if !math.IsNaN(got[0].X) {
		t.Errorf("expected NaN to propagate, got %v", got[0].X)
	}
}

func TestDistances(t *testing.T) {
	got := Distances([]r3.Vec{{X: 3, Y: 4}, {}, {Z: -2}})
	want := []float64{5, 0, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Distances[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
