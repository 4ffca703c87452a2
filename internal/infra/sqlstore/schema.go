package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// currentSchemaVersion is the schema this build reads and writes.
const currentSchemaVersion = 2

// Initialize creates the schema or upgrades it to the current version.
// It runs in one transaction and is safe to call on every start.
func (s *Store) Initialize(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return 0, fmt.Errorf("create schema_meta: %w", err)
	}

	version, err := s.readSchemaVersion(ctx, tx)
	if err != nil {
		return 0, err
	}
	if version > currentSchemaVersion {
		return 0, fmt.Errorf("db schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if err := s.applyMigrations(ctx, tx, version); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit schema: %w", err)
	}
	return currentSchemaVersion, nil
}

func (s *Store) readSchemaVersion(ctx context.Context, tx *sql.Tx) (int, error) {
	var text string
	err := tx.QueryRowContext(ctx, `SELECT value FROM schema_meta WHERE key = 'schema_version'`).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	version, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse schema version %q: %w", text, err)
	}
	if version < 0 {
		return 0, fmt.Errorf("invalid schema version %d", version)
	}
	return version, nil
}

func (s *Store) writeSchemaVersion(ctx context.Context, tx *sql.Tx, version int) error {
	_, err := tx.ExecContext(ctx, s.dialect.rebind(`
INSERT INTO schema_meta (key, value) VALUES ('schema_version', ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`), strconv.Itoa(version))
	if err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

func (s *Store) applyMigrations(ctx context.Context, tx *sql.Tx, version int) error {
	for version < currentSchemaVersion {
		next, err := s.applyNextMigration(ctx, tx, version)
		if err != nil {
			return err
		}
		if err := s.writeSchemaVersion(ctx, tx, next); err != nil {
			return err
		}
		version = next
	}
	return nil
}

func (s *Store) applyNextMigration(ctx context.Context, tx *sql.Tx, version int) (int, error) {
	switch version {
	case 0:
		if err := s.migrateToTaskTable(ctx, tx); err != nil {
			return version, fmt.Errorf("migrate schema 0 -> 1: %w", err)
		}
		return 1, nil
	case 1:
		if err := s.migrateToOwnerName(ctx, tx); err != nil {
			return version, fmt.Errorf("migrate schema 1 -> 2: %w", err)
		}
		return 2, nil
	default:
		return version, fmt.Errorf("unsupported schema migration source version %d", version)
	}
}

func (s *Store) migrateToTaskTable(ctx context.Context, tx *sql.Tx) error {
	createTasks := `
CREATE TABLE IF NOT EXISTS tasks (
	` + s.dialect.idColumn + `,
	description TEXT NOT NULL,
	priority TEXT NOT NULL CHECK (priority IN ('High', 'Medium', 'Low')),
	owner TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`
	if _, err := tx.ExecContext(ctx, createTasks); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner)`); err != nil {
		return err
	}
	return nil
}

func (s *Store) migrateToOwnerName(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `ALTER TABLE tasks ADD COLUMN owner_name TEXT NOT NULL DEFAULT ''`)
	return err
}
