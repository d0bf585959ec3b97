package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"taskmgr/internal/controller"
)

// Run shows the task screen on out until the user quits or ctx ends.
func Run(ctx context.Context, ctl *controller.Controller, out io.Writer) error {
	p := tea.NewProgram(New(ctx, ctl),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
