package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/lootlog/internal/importer"
)

// commitCmd writes the importable rows of the session.
func commitCmd(ctx context.Context, session *importer.Session) tea.Cmd {
	return func() tea.Msg {
		result, err := session.Commit(ctx)
		return commitDoneMsg{result: result, err: err}
	}
}

// extractCmd turns pasted text into preview rows.
func extractCmd(ctx context.Context, session *importer.Session, text, language string) tea.Cmd {
	return func() tea.Msg {
		return extractDoneMsg{err: session.Extract(ctx, text, language)}
	}
}
