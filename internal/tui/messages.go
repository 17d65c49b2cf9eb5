package tui

import "github.com/Veraticus/lootlog/internal/importer"

// Async operation messages.
type commitDoneMsg struct {
	err    error
	result importer.ImportResult
}

type extractDoneMsg struct {
	err error
}
