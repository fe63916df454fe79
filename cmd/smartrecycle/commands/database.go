package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/smartrecycle/internal/db"
	"github.com/vbonduro/smartrecycle/internal/seed"
)

// openSeeded opens the configured database, running migrations and applying
// the embedded dataset if it has not been applied yet.
func openSeeded(ctx context.Context) (*sql.DB, bool, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open database: %w", err)
	}

	ds, err := seed.Load()
	if err != nil {
		_ = database.Close()
		return nil, false, err
	}
	applied, err := seed.Apply(ctx, database, ds)
	if err != nil {
		_ = database.Close()
		return nil, false, err
	}
	if applied {
		logger.Info("seed applied", "seed_id", ds.ID, "districts", len(ds.Districts), "categories", len(ds.Categories))
	}
	return database, applied, nil
}

func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
