package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// RunBoard shows the zoo board on out until the user quits or ctx is cancelled.
// Completing or deleting a task reloads companions, tasks and today's weather.
func RunBoard(ctx context.Context, svc board, out io.Writer) error {
	p := tea.NewProgram(newBoardModel(ctx, svc),
		tea.WithOutput(out),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
