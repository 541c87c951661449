package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/formlane/formlane/pkg/persistence"
	"github.com/formlane/formlane/pkg/persistence/file"
	"github.com/formlane/formlane/pkg/persistence/postgresql"
)

// NewPersistence creates a persistence layer from a database URL. A
// postgres:// URL selects PostgreSQL; anything else is treated as a file
// path for the file-based store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
