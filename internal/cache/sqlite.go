package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

// SQLiteBackend stores entries in a single SQLite database
type SQLiteBackend struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// OpenSQLite opens or creates the database at dbPath
func OpenSQLite(dbPath string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	b := &SQLiteBackend{writeDB: writeDB}
	if err := b.init(); err != nil {
		b.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	b.readDB = readDB

	return b, nil
}

func (b *SQLiteBackend) init() error {
	_, err := b.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key   TEXT PRIMARY KEY,
			data  TEXT NOT NULL,
			time  INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_time ON entries(time);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close closes both connections
func (b *SQLiteBackend) Close() error {
	var errs []error
	if b.readDB != nil {
		errs = append(errs, b.readDB.Close())
	}
	if b.writeDB != nil {
		errs = append(errs, b.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Load reads all entries. Rows that fail to decode are skipped.
func (b *SQLiteBackend) Load(ctx context.Context) (map[string]model.CacheEntry, error) {
	rows, err := b.readDB.QueryContext(ctx, "SELECT key, data FROM entries")
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]model.CacheEntry)
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		var entry model.CacheEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			continue
		}
		entries[key] = entry
	}
	return entries, rows.Err()
}

// Save upserts the entry
func (b *SQLiteBackend) Save(ctx context.Context, key string, entry model.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	_, err = b.writeDB.ExecContext(ctx, `
		INSERT INTO entries (key, data, time) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			time = excluded.time
	`, key, string(data), entry.Time)
	if err != nil {
		return fmt.Errorf("upserting entry %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	_, err := b.writeDB.ExecContext(ctx, "DELETE FROM entries WHERE key = ?", key)
	return err
}

// Clear removes all entries
func (b *SQLiteBackend) Clear(ctx context.Context) error {
	_, err := b.writeDB.ExecContext(ctx, "DELETE FROM entries")
	return err
}
