package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration upgrades the schema by one version.
type Migration func(ctx context.Context, tx *sql.Tx) error

// UserVersion reads PRAGMA user_version.
func UserVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("sqlite: read user_version: %w", err)
	}
	return v, nil
}

// Migrate applies steps[current:] in one transaction and records the new
// version in PRAGMA user_version. steps[i] upgrades version i to i+1. A
// database newer than the binary is rejected.
func Migrate(ctx context.Context, db *sql.DB, steps []Migration) error {
	current, err := UserVersion(ctx, db)
	if err != nil {
		return err
	}
	target := len(steps)
	if current > target {
		return fmt.Errorf("sqlite: schema version %d is newer than supported %d", current, target)
	}
	if current == target {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for v := current; v < target; v++ {
		if err := steps[v](ctx, tx); err != nil {
			return fmt.Errorf("sqlite: migrate %d -> %d: %w", v, v+1, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		return fmt.Errorf("sqlite: write user_version: %w", err)
	}
	return tx.Commit()
}

// Exec returns a Migration running a fixed DDL script.
func Exec(script string) Migration {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, script)
		return err
	}
}
