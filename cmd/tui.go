package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/michaelRS2002/Popfix-front/internal/shared"
	"github.com/michaelRS2002/Popfix-front/internal/ui"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: database not initialized, run 'popfix setup'", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/popfix-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Deps{
		Auth:          r.auth,
		Movies:        r.movies,
		Favorites:     r.favorites,
		Sessions:      r.sessions,
		Bus:           r.bus,
		PageSize:      r.config.UI.PageSize,
		ToastDuration: time.Duration(r.config.UI.ToastMillis) * time.Millisecond,
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
