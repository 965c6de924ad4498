// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exosky/internal/catalog"
	"github.com/litescript/ls-exosky/internal/chart"
	"github.com/litescript/ls-exosky/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewTargets ViewMode = iota
	ViewChart2D
	ViewChart3D
)

const (
	fovStep       = 5.0
	minFOV        = 5.0
	maxFOV        = 180.0
	magnitudeStep = 0.5
	buildTimeout  = 30 * time.Second
)

// Builder produces charts. chart.Service implements it.
type Builder interface {
	Build2D(ctx context.Context, req chart.ViewRequest) (chart.Chart2D, error)
	Build3D(ctx context.Context, req chart.ViewRequest) (chart.Chart3D, error)
}

// Msg types for Bubble Tea
type (
	// AnimTickMsg triggers spinner updates.
	AnimTickMsg time.Time

	// chart2DMsg carries a finished 2D build.
	chart2DMsg struct {
		seq   int
		chart chart.Chart2D
		err   error
	}

	// chart3DMsg carries a finished 3D build.
	chart3DMsg struct {
		seq   int
		chart chart.Chart3D
		err   error
	}
)

// Model is the root Bubble Tea model. Builds run in commands and report back
// through messages; only Update mutates the model.
type Model struct {
	builder Builder

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int

	targets TargetsModel
	req     chart.ViewRequest

	// seq increments per build; results with an older seq are dropped.
	seq      int
	building bool
	lastErr  error
	elapsed  time.Duration
	started  time.Time

	chart2D *chart.Chart2D
	chart3D *chart.Chart3D
}

// New creates a root UI model over the given targets. defaults supplies the
// initial view parameters; its Target field is ignored.
func New(builder Builder, targets []string, defaults chart.ViewRequest) Model {
	return Model{
		builder:  builder,
		viewMode: ViewTargets,
		targets:  NewTargetsModel(targets),
		req:      defaults,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return animTickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "t":
			m.viewMode = ViewTargets
		case "2":
			m.viewMode = ViewChart2D
			cmds = append(cmds, m.buildIfStale())
		case "3":
			m.viewMode = ViewChart3D
			cmds = append(cmds, m.buildIfStale())
		case "tab":
			m.viewMode = (m.viewMode + 1) % 3
			if m.viewMode != ViewTargets {
				cmds = append(cmds, m.buildIfStale())
			}

		case "enter":
			if m.viewMode == ViewTargets {
				m.viewMode = ViewChart2D
			}
			cmds = append(cmds, m.build())
		case "r":
			cmds = append(cmds, m.build())

		case "p":
			if m.req.POV == catalog.POVEarth {
				m.req.POV = catalog.POVExoplanet
			} else {
				m.req.POV = catalog.POVEarth
			}
			cmds = append(cmds, m.rebuild())
		case "+", "=":
			m.req.FOV = min(m.req.FOV+fovStep, maxFOV)
			cmds = append(cmds, m.rebuild())
		case "-", "_":
			m.req.FOV = max(m.req.FOV-fovStep, minFOV)
			cmds = append(cmds, m.rebuild())
		case "]":
			m.req.MagnitudeLimit += magnitudeStep
			cmds = append(cmds, m.rebuild())
		case "[":
			m.req.MagnitudeLimit -= magnitudeStep
			cmds = append(cmds, m.rebuild())

		default:
			if m.viewMode == ViewTargets {
				m.targets = m.targets.Update(msg)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.targets = m.targets.SetSize(msg.Width, msg.Height-headerLines-footerLines)

	case AnimTickMsg:
		m.animTick++
		cmds = append(cmds, animTickCmd())

	case chart2DMsg:
		if msg.seq != m.seq {
			break
		}
		m.finishBuild(msg.err)
		if msg.err == nil {
			c := msg.chart
			m.chart2D = &c
		}

	case chart3DMsg:
		if msg.seq != m.seq {
			break
		}
		m.finishBuild(msg.err)
		if msg.err == nil {
			c := msg.chart
			m.chart3D = &c
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) finishBuild(err error) {
	m.building = false
	m.lastErr = err
	m.elapsed = time.Since(m.started)
}

// request returns the view request for the selected target.
func (m Model) request() chart.ViewRequest {
	req := m.req
	req.Target = m.targets.Selected()
	return req
}

// buildIfStale builds the active chart when none matches the selection.
func (m *Model) buildIfStale() tea.Cmd {
	target := m.targets.Selected()
	switch m.viewMode {
	case ViewChart2D:
		if m.chart2D != nil && m.chart2D.Target == target && m.chart2D.POV == m.req.POV {
			return nil
		}
	case ViewChart3D:
		if m.chart3D != nil && m.chart3D.Target == target && m.chart3D.POV == m.req.POV {
			return nil
		}
	}
	return m.build()
}

// rebuild refreshes the active chart after a parameter change. The inactive
// chart is dropped so switching to it builds with the new parameters.
func (m *Model) rebuild() tea.Cmd {
	switch m.viewMode {
	case ViewChart2D:
		m.chart3D = nil
	case ViewChart3D:
		m.chart2D = nil
	default:
		m.chart2D, m.chart3D = nil, nil
		return nil
	}
	return m.build()
}

// build starts a build of the active chart kind.
func (m *Model) build() tea.Cmd {
	if m.builder == nil || m.targets.Selected() == "" {
		return nil
	}

	m.seq++
	m.building = true
	m.started = time.Now()
	seq, req, builder := m.seq, m.request(), m.builder

	if m.viewMode == ViewChart3D {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
			defer cancel()
			c, err := builder.Build3D(ctx, req)
			return chart3DMsg{seq: seq, chart: c, err: err}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
		defer cancel()
		c, err := builder.Build2D(ctx, req)
		return chart2DMsg{seq: seq, chart: c, err: err}
	}
}

const (
	headerLines = 4
	footerLines = 2
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	contentHeight := m.height - headerLines - footerLines
	var content string
	switch m.viewMode {
	case ViewTargets:
		content = m.targets.View()
	case ViewChart2D:
		content = renderChart2D(m.chart2D, m.width, contentHeight)
	case ViewChart3D:
		content = renderChart3D(m.chart3D, m.width, contentHeight)
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(m.renderLogo())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderParams())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderLogo() string {
	const logo = "  ✶ LS-EXOSKY ✶"
	runes := []rune(logo)

	var b strings.Builder
	for col, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(col, 0, len(runes), 1)))
		b.WriteString(style.Render(string(r)))
	}
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Exoplanet Star Charts · v%s", version.Version)))
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// blue, purple, magenta, then pink, fading toward the bottom row.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r, g, b = 59+t*(139-59), 130+t*(92-130), 246
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r, g, b = 139+t*(217-139), 92+t*(70-92), 246+t*(239-246)
	default:
		t := (xRatio - 0.66) / 0.34
		r, g, b = 217+t*(236-217), 70+t*(72-70), 239+t*(153-239)
	}

	fade := 1.0 - yRatio*0.5
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*fade), clampByte(g*fade), clampByte(b*fade))
}

func clampByte(v float64) int {
	return int(min(max(v, 0), 255))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Targets", "[2] Chart", "[3] 3D"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderParams() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#d0c8ff"))

	target := m.targets.Selected()
	if target == "" {
		target = "(none)"
	}
	return "  " + accentStyle.Render(target) + dimStyle.Render(fmt.Sprintf(
		" | from %s | fov %g° | mag ≤ %g | max %d",
		povLabel(m.req.POV, target), m.req.FOV, m.req.MagnitudeLimit, m.req.MaxPoints))
}

func povLabel(pov catalog.POV, target string) string {
	if pov == catalog.POVExoplanet {
		return target
	}
	return chart.EarthLabel
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	var status string
	switch {
	case m.building:
		status = accentStyle.Render(spinnerFrames[m.animTick%len(spinnerFrames)]) + dimStyle.Render(" building...")
	case m.lastErr != nil:
		status = errorStyle.Render("ERROR: " + m.lastErr.Error())
	case m.elapsed > 0:
		status = dimStyle.Render("built in " + m.elapsed.Round(time.Millisecond).String())
	default:
		status = dimStyle.Render("enter: build chart")
	}

	help := dimStyle.Render("↑↓: target | p: pov | +/-: fov | [/]: magnitude | r: rebuild | tab: view | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
