package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/Veraticus/lootlog/internal/config"
	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/service"
	"github.com/Veraticus/lootlog/internal/storage"
)

// openStorage opens the configured database and brings its schema up to date.
func openStorage(ctx context.Context, settings *config.Settings) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newSession creates an import session writing to writer.
func newSession(settings *config.Settings, writer importer.Writer, extractor importer.Extractor) (*importer.Session, error) {
	session, err := importer.NewSession(importer.SessionConfig{
		Writer:    writer,
		Extractor: extractor,
		Logger:    slog.Default(),
		OwnerID:   settings.OwnerID,
		Strategy:  settings.CommitStrategy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start import: %w", err)
	}
	return session, nil
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) // #nosec G115
}
