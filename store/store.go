// Package store is a SQLite contact store with the raw contact and data row
// layout of the Android contacts provider.
//
// Store applies contactops batches atomically: every operation of a batch
// runs in one transaction, and back-references are resolved against the ids
// produced earlier in the same batch.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	driverName = "sqlite3"

	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"
)

var (
	// ErrUnknownColumn is returned when an operation names a column its table
	// does not have.
	ErrUnknownColumn = errors.New("store: unknown column")
	// ErrBackReference is returned when a back-reference points at an
	// operation that did not produce an id.
	ErrBackReference = errors.New("store: invalid back-reference")
	// ErrInvalidOperation is returned for operations the store cannot apply,
	// such as an update without a selection.
	ErrInvalidOperation = errors.New("store: invalid operation")
	// ErrNotFound is returned when a raw contact does not exist.
	ErrNotFound = errors.New("store: not found")
)

// Store is an open contact database.
type Store struct {
	db     *sqlx.DB
	logger ectologger.Logger
}

// Open opens or creates the database at path and applies pending
// migrations. Use MemoryPath for a throwaway database.
func Open(ctx context.Context, path string, logger ectologger.Logger) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	// SQLite allows one writer; an in-memory database also lives on a
	// single connection.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db.DB, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.WithContext(ctx).WithField("path", path).Debug("Opened contact store")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func dsn(path string) string {
	const params = "_foreign_keys=on&_busy_timeout=5000"
	path = strings.TrimSpace(path)
	if path == "" || path == MemoryPath {
		return "file::memory:?" + params
	}
	return fmt.Sprintf("file:%s?%s", path, params)
}
