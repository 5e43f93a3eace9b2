package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled. Cancellation goes through the model so timers are closed
// and the window title is restored before exit.
func Run(ctx context.Context, d Deps) error {
	p := tea.NewProgram(New(d), tea.WithAltScreen(), tea.WithoutSignalHandler())
	stop := context.AfterFunc(ctx, func() { p.Send(shutdownMsg{}) })
	defer stop()
	_, err := p.Run()
	return err
}
