// Package objstore is a small blob store with directory blobs, per-blob
// key/value metadata and tags, queryable by metadata and tag. Each profile is
// one SQLite database file.
package objstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/jd/pkg/types"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("object store closed")

// Kind distinguishes directory blobs from file blobs.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Meta describes a blob. Fields and Tags are free-form and queryable.
type Meta struct {
	Name   string
	Kind   Kind
	Parent string
	Size   int64
	Fields map[string]string
	Tags   []string
}

// Blob is a stored object as returned by Query.
type Blob struct {
	ID   string
	Meta Meta
}

// Query selects blobs. Every field and tag must match. An empty Kind matches
// both kinds. A zero Limit returns everything.
type Query struct {
	Kind   Kind
	Fields map[string]string
	Tags   []string
	Limit  int
}

// Store is an open object store profile.
type Store struct {
	mu      sync.RWMutex
	db      *sql.DB
	profile string
}

// Open opens or creates the store database at path. profile names the store
// in URLs.
func Open(path, profile string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, types.IOError("creating store directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, types.IOError("opening store", err)
	}
	// One connection serializes writers from concurrent uploads.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, types.IOError("enabling foreign keys", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, types.IOError("creating schema", err)
		}
	}
	return &Store{db: db, profile: profile}, nil
}

// URL returns the address of a blob.
func (s *Store) URL(id string) string {
	return fmt.Sprintf("objstore://%s/%s", s.profile, id)
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the database or ErrClosed. The caller must hold s.mu.
func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

// generateID generates a new UUID v7 for blob ids.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
