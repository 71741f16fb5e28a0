// Package storage persists vision model output in SQLite so identical crops
// across requests and restarts skip the model call.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/snapvalue/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements domain.DescriptionStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS vision_cache (
		image_hash TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create vision_cache table: %w", err)
	}
	return nil
}

// Get retrieves a cached description by image hash.
// Returns nil, nil when the hash has never been seen.
func (s *SQLiteStore) Get(imageHash string) (*domain.ObjectDescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRow(
		"SELECT description FROM vision_cache WHERE image_hash = ?",
		imageHash,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vision cache: %w", err)
	}

	var desc domain.ObjectDescription
	if err := json.Unmarshal([]byte(raw), &desc); err != nil {
		return nil, fmt.Errorf("failed to decode cached description: %w", err)
	}
	return &desc, nil
}

// Put stores or replaces the description for an image hash.
func (s *SQLiteStore) Put(imageHash string, desc domain.ObjectDescription) error {
	raw, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("failed to encode description: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO vision_cache (image_hash, description) VALUES (?, ?)",
		imageHash, string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to store description: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
