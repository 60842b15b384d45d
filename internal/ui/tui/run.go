package tui

import (
	"time"

	coreapp "cropcare/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive program and blocks until the user quits.
func Run(a *coreapp.App, splash time.Duration) error {
	m := newModel(a, splash)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.sender.attach(p.Send)

	_, err := p.Run()
	return err
}
