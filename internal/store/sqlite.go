package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/fivegms/internal/model"
	"github.com/ManuGH/fivegms/internal/persistence/sqlite"
)

var sqliteMigrations = []sqlite.Migration{
	sqlite.Exec(`
	CREATE TABLE IF NOT EXISTS records (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		data BLOB NOT NULL,
		updated_at_ms INTEGER NOT NULL,
		PRIMARY KEY (kind, key)
	);`),
	sqlite.Exec(`CREATE INDEX IF NOT EXISTS idx_records_updated ON records(kind, updated_at_ms);`),
}

// SQLiteStore implements Store on a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens (and migrates) the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, sqliteMigrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("record store: migration failed: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, kind model.Kind, key string, data []byte) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (kind, key, data, updated_at_ms) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, key) DO UPDATE SET data = excluded.data, updated_at_ms = excluded.updated_at_ms`,
		string(kind), key, data, s.now().UnixMilli())
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, kind model.Kind, key string) ([]byte, error) {
	if err := CheckKey(kind, key); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM records WHERE kind = ? AND key = ?`, string(kind), key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, kind model.Kind, key string) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ? AND key = ?`, string(kind), key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, kind model.Kind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM records WHERE kind = ? ORDER BY key`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Verify runs an integrity check and reports corruption as an error.
func (s *SQLiteStore) Verify(ctx context.Context) error {
	issues, err := sqlite.VerifyIntegrity(ctx, s.db, "quick")
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("record store: integrity check failed: %v", issues)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
