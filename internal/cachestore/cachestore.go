// Package cachestore persists the parse cache between CLI invocations so
// consecutive builds of a large site skip unchanged files even across process
// restarts.
package cachestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/polysite/polysite/internal/content"
)

// Store is a SQLite-backed parse cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at dbPath. Use ":memory:" for an
// ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parse_cache (
		path TEXT PRIMARY KEY,
		mod_time INTEGER NOT NULL,
		content BLOB NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the whole cache. Entries that fail to decode are dropped rather
// than failing the build; the affected files simply re-parse.
func (s *Store) Load() (content.Cache, error) {
	rows, err := s.db.Query("SELECT path, mod_time, content FROM parse_cache")
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	cache := make(content.Cache)
	for rows.Next() {
		var path string
		var modTimeNano int64
		var payload []byte
		if err := rows.Scan(&path, &modTimeNano, &payload); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}

		var c content.Content
		if err := json.Unmarshal(payload, &c); err != nil {
			continue
		}
		cache[path] = content.CacheEntry{
			ModTime: time.Unix(0, modTimeNano),
			Content: &c,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache rows: %w", err)
	}
	return cache, nil
}

// Save replaces the stored cache with the given one atomically.
func (s *Store) Save(cache content.Cache) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM parse_cache"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	for path, entry := range cache {
		payload, err := json.Marshal(entry.Content)
		if err != nil {
			return fmt.Errorf("marshal cache entry %s: %w", path, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO parse_cache (path, mod_time, content) VALUES (?, ?, ?)",
			path, entry.ModTime.UnixNano(), payload,
		); err != nil {
			return fmt.Errorf("insert cache entry %s: %w", path, err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
