// Package store persists the price catalog and saved quotes in SQLite.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the application database.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by db. The schema must already be migrated.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
