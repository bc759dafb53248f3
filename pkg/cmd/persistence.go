// Package cmd wires the shared infrastructure the binaries assemble at
// startup: persistence, event bus, and validation cache selection.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/relaycrm/journey/pkg/persistence"
	"github.com/relaycrm/journey/pkg/persistence/file"
	"github.com/relaycrm/journey/pkg/persistence/postgresql"
)

// NewPersistence selects the storage backend from the database URL scheme.
// postgres:// and postgresql:// open a database; anything else is treated as
// a file path for development setups.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parseScheme(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to initialize postgresql persistence: %w", err))
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parseScheme(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
