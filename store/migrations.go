package store

import (
	"context"
	"fmt"
	"log/slog"
)

// migration is one versioned schema change. Statements run in order inside
// the migration's transaction. Lenient migrations tolerate per-statement
// failures, which lets a change that is already part of the base schema be
// re-declared for databases created before it landed there.
type migration struct {
	version     int
	description string
	statements  []string
	lenient     bool
}

// Ordered migration list. Append only; released versions never change.
var migrations = []migration{
	{
		version:     1,
		description: "base gazette schema (runs, students, indexes)",
		// Applied by New via schemaSQL; recorded here so version counting
		// starts at the schema the first release shipped with.
	},
	{
		version:     2,
		description: "add exam_session to runs",
		statements:  []string{"ALTER TABLE runs ADD COLUMN exam_session TEXT"},
		lenient:     true,
	},
	{
		version:     3,
		description: "lookup indexes for enrollment reference and result filters",
		statements: []string{
			"CREATE INDEX IF NOT EXISTS idx_students_ern ON students(ern)",
			"CREATE INDEX IF NOT EXISTS idx_students_result ON students(run_id, result)",
		},
	},
}

// Migrate applies all pending schema migrations in version order, each in
// its own transaction, recording progress in the schema_version table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
		slog.Info("schema migrated", "version", m.version, "description", m.description)
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", m.version, err)
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if !m.lenient {
				return fmt.Errorf("migration %d: %w", m.version, err)
			}
			// Fresh databases already carry the change in the base schema.
			slog.Debug("migration statement skipped", "version", m.version, "error", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, description) VALUES (?, ?)",
		m.version, m.description); err != nil {
		return fmt.Errorf("recording migration %d: %w", m.version, err)
	}
	return tx.Commit()
}
