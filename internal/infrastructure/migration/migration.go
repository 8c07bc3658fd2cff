package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations() {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration is one idempotent schema step.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the steps in the order they run.
func Migrations() []Migration {
	return []Migration{
		{
			Name: "create_documents",
			SQL: `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			theme_id TEXT NOT NULL DEFAULT '',
			content JSONB NOT NULL DEFAULT '{"type":"doc","content":[]}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		},
		{
			Name: "index_documents_owner",
			SQL: `
		CREATE INDEX IF NOT EXISTS documents_owner_updated_idx
		ON documents (owner_id, updated_at DESC);`,
		},
	}
}
