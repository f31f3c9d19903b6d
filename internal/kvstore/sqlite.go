package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend implements Backend using SQLite.
type SQLiteBackend struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) a SQLite-backed store.
// Use ":memory:" for an in-memory database.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS cpd_kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// GetItem retrieves a value by key.
func (b *SQLiteBackend) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var value []byte
	err := b.db.QueryRowContext(ctx,
		"SELECT value FROM cpd_kv WHERE key = ?", key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem stores or updates a value.
func (b *SQLiteBackend) SetItem(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO cpd_kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// RemoveItem deletes a value by key.
func (b *SQLiteBackend) RemoveItem(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.db.ExecContext(ctx, "DELETE FROM cpd_kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Clear deletes every stored value.
func (b *SQLiteBackend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.db.ExecContext(ctx, "DELETE FROM cpd_kv"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// GetAllKeys lists every stored key in lexical order.
func (b *SQLiteBackend) GetAllKeys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows, err := b.db.QueryContext(ctx, "SELECT key FROM cpd_kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close shuts down the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
