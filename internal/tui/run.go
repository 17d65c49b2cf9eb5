package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/lootlog/internal/importer"
)

// ErrNoSession is returned when Run is called without a session.
var ErrNoSession = errors.New("import session is required")

// Run shows the interactive import screen for session until the user
// commits, discards or quits. A failed commit is returned as the error
// together with OutcomeCommitted; the session holds the result.
func Run(ctx context.Context, session *importer.Session, opts ...Option) (Outcome, error) {
	if session == nil {
		return OutcomeQuit, ErrNoSession
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	program := tea.NewProgram(
		newModel(ctx, session, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		return OutcomeQuit, fmt.Errorf("TUI error: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return OutcomeQuit, fmt.Errorf("TUI returned unexpected model %T", final)
	}
	if m.Outcome() == OutcomeCommitted {
		return OutcomeCommitted, m.Err()
	}
	return m.Outcome(), nil
}
