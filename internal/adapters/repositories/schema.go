package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema used for route history.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRouteHistoryQuery := `
	CREATE TABLE IF NOT EXISTS route_history (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		start_name TEXT NOT NULL,
		end_name TEXT NOT NULL,
		total_distance TEXT NOT NULL,
		total_duration TEXT NOT NULL,
		total_distance_meters INTEGER NOT NULL,
		total_duration_seconds INTEGER NOT NULL,
		consider_traffic BOOLEAN NOT NULL DEFAULT false,
		round_trip BOOLEAN NOT NULL DEFAULT false,
		stops JSONB NOT NULL,
		waypoint_order JSONB NOT NULL,
		path_geometry TEXT
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_history_created_at
	ON route_history(created_at DESC);
	`

	statements := []string{
		createRouteHistoryQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
