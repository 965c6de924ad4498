package ui

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-exosky/internal/catalog"
	"github.com/litescript/ls-exosky/internal/chart"
)

type fakeBuilder struct {
	err  error
	reqs []chart.ViewRequest
}

func (f *fakeBuilder) Build2D(ctx context.Context, req chart.ViewRequest) (chart.Chart2D, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return chart.Chart2D{}, f.err
	}
	return chart.Chart2D{Target: req.Target, POV: req.POV, Title: "2D " + req.Target}, nil
}

func (f *fakeBuilder) Build3D(ctx context.Context, req chart.ViewRequest) (chart.Chart3D, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return chart.Chart3D{}, f.err
	}
	return chart.Chart3D{Target: req.Target, POV: req.POV, Origin: chart.Marker{Label: chart.EarthLabel}}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(b Builder) Model {
	m := New(b, []string{"TOI-700 d", "Ross 128 b", "TRAPPIST-1 e"}, chart.DefaultRequest(""))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// press sends a key and runs the resulting command, feeding its message back.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	updated, cmd := m.Update(key(k))
	m = updated.(Model)
	if cmd == nil {
		return m
	}
	if msg := runBuild(cmd); msg != nil {
		updated, _ = m.Update(msg)
		m = updated.(Model)
	}
	return m
}

// runBuild executes cmd and returns the first chart message it yields.
func runBuild(cmd tea.Cmd) tea.Msg {
	switch msg := cmd().(type) {
	case chart2DMsg, chart3DMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if _, ok := c().(AnimTickMsg); ok {
				continue
			}
			if m := runBuild(c); m != nil {
				return m
			}
		}
	}
	return nil
}

func TestModel_BuildSelected(t *testing.T) {
	b := &fakeBuilder{}
	m := newTestModel(b)

	m = press(t, m, "down")
	m = press(t, m, "enter")

	if m.viewMode != ViewChart2D {
		t.Errorf("view = %v, want chart", m.viewMode)
	}
	if m.chart2D == nil || m.chart2D.Target != "Ross 128 b" {
		t.Fatalf("chart2D = %+v", m.chart2D)
	}
	if m.building {
		t.Error("still building after result")
	}
	if len(b.reqs) != 1 || b.reqs[0].FOV != 30 {
		t.Errorf("requests = %+v", b.reqs)
	}
}

func TestModel_TogglePOVRebuilds(t *testing.T) {
	b := &fakeBuilder{}
	m := newTestModel(b)
	m = press(t, m, "enter")
	m = press(t, m, "p")

	if m.req.POV != catalog.POVExoplanet {
		t.Errorf("pov = %v, want exoplanet", m.req.POV)
	}
	if m.chart2D.POV != catalog.POVExoplanet {
		t.Errorf("chart not rebuilt for new POV")
	}
	if len(b.reqs) != 2 {
		t.Errorf("expected 2 builds, got %d", len(b.reqs))
	}
}

func TestModel_FOVBounds(t *testing.T) {
	m := newTestModel(&fakeBuilder{})
	for i := 0; i < 10; i++ {
		m = press(t, m, "-")
	}
	if m.req.FOV != minFOV {
		t.Errorf("fov = %v, want floor %v", m.req.FOV, minFOV)
	}
	for i := 0; i < 50; i++ {
		m = press(t, m, "+")
	}
	if m.req.FOV != maxFOV {
		t.Errorf("fov = %v, want ceiling %v", m.req.FOV, maxFOV)
	}
}

func TestModel_3DView(t *testing.T) {
	b := &fakeBuilder{}
	m := newTestModel(b)
	m = press(t, m, "3")

	if m.chart3D == nil || m.chart3D.Target != "TOI-700 d" {
		t.Fatalf("chart3D = %+v", m.chart3D)
	}

	// Switching back and forth reuses the built chart.
	m = press(t, m, "1")
	m = press(t, m, "3")
	if len(b.reqs) != 1 {
		t.Errorf("expected cached 3D chart, got %d builds", len(b.reqs))
	}
}

func TestModel_ParamChangeInvalidatesOtherView(t *testing.T) {
	b := &fakeBuilder{}
	m := newTestModel(b)
	m = press(t, m, "2")
	m = press(t, m, "3")

	// Widening the FOV in the 3D view rebuilds only that chart.
	m = press(t, m, "+")
	if m.chart2D != nil {
		t.Fatalf("2D chart kept after FOV change: %+v", m.chart2D)
	}
	if len(b.reqs) != 3 {
		t.Fatalf("expected 3 builds, got %d", len(b.reqs))
	}

	m = press(t, m, "2")
	if len(b.reqs) != 4 {
		t.Fatalf("2D view not rebuilt, got %d builds", len(b.reqs))
	}
	if got, want := b.reqs[3].FOV, 30+fovStep; got != want {
		t.Errorf("2D rebuilt with fov %v, want %v", got, want)
	}
	if m.chart2D == nil {
		t.Error("2D chart missing after rebuild")
	}
}

func TestModel_StaleResultDropped(t *testing.T) {
	m := newTestModel(&fakeBuilder{})
	m.seq = 5

	updated, _ := m.Update(chart2DMsg{seq: 4, chart: chart.Chart2D{Target: "old"}})
	m = updated.(Model)
	if m.chart2D != nil {
		t.Errorf("stale result applied: %+v", m.chart2D)
	}
}

func TestModel_BuildError(t *testing.T) {
	b := &fakeBuilder{err: errors.New("boom")}
	m := newTestModel(b)
	m = press(t, m, "enter")

	if m.lastErr == nil || m.chart2D != nil {
		t.Fatalf("expected error state, got err=%v chart=%v", m.lastErr, m.chart2D)
	}
	if !strings.Contains(stripANSI(m.View()), "ERROR: boom") {
		t.Error("error not shown in footer")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(&fakeBuilder{})
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModel_View(t *testing.T) {
	m := New(nil, nil, chart.DefaultRequest(""))
	if m.View() != "Initializing..." {
		t.Errorf("unexpected view before size: %q", m.View())
	}

	m = newTestModel(&fakeBuilder{})
	out := stripANSI(m.View())
	for _, want := range []string{"LS-EXOSKY", "[1] Targets", "TOI-700 d", "fov 30°"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTargetsModel_Navigation(t *testing.T) {
	m := NewTargetsModel([]string{"a", "b", "c"})
	m = m.Update(key("down"))
	m = m.Update(key("down"))
	m = m.Update(key("down"))
	if m.Selected() != "c" {
		t.Errorf("selected = %q, want c", m.Selected())
	}
	m = m.Update(key("g"))
	if m.Selected() != "a" {
		t.Errorf("selected = %q, want a", m.Selected())
	}

	if got := NewTargetsModel(nil).Selected(); got != "" {
		t.Errorf("empty list selected %q", got)
	}
}

func TestTargetsModel_Scroll(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = string(rune('A' + i%26))
	}
	m := NewTargetsModel(names).SetSize(40, 7)
	for i := 0; i < 20; i++ {
		m = m.Update(key("j"))
	}
	out := stripANSI(m.View())
	if !strings.Contains(out, " 21  ") || strings.Contains(out, "  1  A") {
		t.Errorf("list not scrolled to cursor:\n%s", out)
	}
}

func TestGradientColor(t *testing.T) {
	re := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for col := 0; col < 20; col++ {
		if c := gradientColor(col, 0, 20, 1); !re.MatchString(c) {
			t.Errorf("gradientColor(%d) = %q", col, c)
		}
	}
	if gradientColor(0, 0, 10, 1) != "#3B82F6" {
		t.Errorf("gradient start = %s", gradientColor(0, 0, 10, 1))
	}
}

func TestRenderChart3D(t *testing.T) {
	c := &chart.Chart3D{
		X: []float64{5}, Y: []float64{5}, Z: []float64{0}, Size: []float64{20},
		Origin: chart.Marker{Label: chart.EarthLabel},
		Other:  chart.Marker{Label: "T"},
	}
	c.Other.Pos.X = -10

	out := stripANSI(renderChart3D(c, 40, 12))
	for _, r := range []rune{glyphOrigin, glyphOther, '✸'} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("3D view missing %c", r)
		}
	}
	if !strings.Contains(out, "1 stars") {
		t.Errorf("summary missing count:\n%s", out)
	}
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}
