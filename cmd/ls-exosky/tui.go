package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-exosky/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse targets and charts in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, loader, err := newService()
		if err != nil {
			return err
		}

		// Log to the file only; stderr would corrupt the alt screen.
		svc.Log = newLogger(nil)

		model := ui.New(svc, loader.Targets(), baseRequest(""))
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	},
}
