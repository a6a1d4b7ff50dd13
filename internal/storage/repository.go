// Package storage contains storage-agnostic contracts and utilities for the
// optional database mirror: reshaped rows that were written to TSV can also
// be bulk-inserted into a database table for downstream querying.
//
// Concrete backends (postgres, sqlite) live in subpackages and register
// themselves with this package's factory at init time; importing
// storage/all enables every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres" or "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name.
	Table string

	// Columns enumerates destination columns in insert order. For mirrored
	// TSV output this is the output file's header.
	Columns []string
}

// Repository is the minimal contract a backend must satisfy: bulk insert
// plus arbitrary DDL execution.
type Repository interface {
	// CopyFrom inserts rows (aligned to columns order) into the configured
	// table and returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs an arbitrary SQL statement, typically DDL.
	Exec(ctx context.Context, sql string) error
}

// Factory constructs a Repository for a Config. The returned func closes
// the underlying connection.
type Factory func(ctx context.Context, cfg Config) (Repository, func(), error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a Factory for the given storage kind. It
// is typically called from backend packages' init() functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. The caller must invoke the returned
// close function when done.
func New(ctx context.Context, cfg Config) (Repository, func(), error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("storage: no backend registered for kind %q (did you import storage/all?)", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds, for diagnostics.
func Kinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
