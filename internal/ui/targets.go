package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the target list
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// TargetsModel is a scrolling list of exoplanet names.
type TargetsModel struct {
	width  int
	height int
	cursor int
	names  []string
}

// NewTargetsModel creates a list over names.
func NewTargetsModel(names []string) TargetsModel {
	return TargetsModel{names: names}
}

// SetSize updates the viewport size.
func (m TargetsModel) SetSize(width, height int) TargetsModel {
	m.width = width
	m.height = height
	return m
}

// Selected returns the name under the cursor, or "" for an empty list.
func (m TargetsModel) Selected() string {
	if m.cursor < 0 || m.cursor >= len(m.names) {
		return ""
	}
	return m.names[m.cursor]
}

// Update handles navigation keys.
func (m TargetsModel) Update(msg tea.KeyMsg) TargetsModel {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.names) > 0 {
			m.cursor = len(m.names) - 1
		}
	}
	return m
}

// View renders the list, scrolled to keep the cursor visible.
func (m TargetsModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Targets"))
	b.WriteString("\n")

	if len(m.names) == 0 {
		b.WriteString(mutedStyle.Render("  No targets configured. Run `ls-exosky fetch targets` or add data.targets to the config."))
		return b.String()
	}

	rows := m.height - 2
	if rows < 1 {
		rows = len(m.names)
	}
	first := 0
	if m.cursor >= rows {
		first = m.cursor - rows + 1
	}
	last := min(first+rows, len(m.names))

	for i := first; i < last; i++ {
		line := fmt.Sprintf("  %3d  %s", i+1, m.names[i])
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d of %d", m.cursor+1, len(m.names))))
	return b.String()
}
