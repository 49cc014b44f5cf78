// Package store handles SQLite persistence for cached provider responses.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the variant cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS variant_cache (
			word TEXT NOT NULL,
			context TEXT NOT NULL,
			position INTEGER NOT NULL,
			variations TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (word, context, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_variant_cache_created_at ON variant_cache(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get looks up a cached provider response. The second return value reports
// whether the entry exists.
func (s *Store) Get(ctx context.Context, word, sentenceContext string, position int) ([]string, bool, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		`SELECT variations FROM variant_cache WHERE word = ? AND context = ? AND position = ?`,
		word, sentenceContext, position,
	).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query variant cache: %w", err)
	}
	var variations []string
	if err := json.Unmarshal([]byte(encoded), &variations); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached variations: %w", err)
	}
	return variations, true, nil
}

// Put stores a provider response, replacing any previous entry for the key.
func (s *Store) Put(ctx context.Context, word, sentenceContext string, position int, variations []string) error {
	encoded, err := json.Marshal(variations)
	if err != nil {
		return fmt.Errorf("failed to encode variations: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO variant_cache (word, context, position, variations, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		word, sentenceContext, position, string(encoded), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write variant cache: %w", err)
	}
	return nil
}
