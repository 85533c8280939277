package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ukaji3/xlview-go/pkg/xlview/viewer"
)

// Run shows the UI until the user quits or ctx is cancelled.
func Run(ctx context.Context, v *viewer.Viewer) error {
	p := tea.NewProgram(New(ctx, v), tea.WithAltScreen(), tea.WithContext(ctx))

	// Viewer changes can originate inside Update, so Send must not block it.
	unsubscribe := v.Subscribe(func() {
		go p.Send(stateMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
