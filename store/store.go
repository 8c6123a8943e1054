// Package store persists forms and submissions as JSON documents in sqlite
// rows. It is the only stateful collaborator: every handler reads and writes
// through an explicitly passed *Store, no package-level connection.
package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a referenced document id does not resolve.
// Callers test with errors.Is.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for collaborators that speak SQL
// directly (the oauth credentials verifier).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
