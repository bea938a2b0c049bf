// Package storage contains the backend-agnostic contracts for loading
// filtered tables directly into a relational database, plus a registry that
// concrete backends (postgres, sqlite, mysql, mssql) join at init time.
//
// Callers construct a Repository through New and then stay fully
// backend-agnostic: bulk inserts go through CopyFrom, DDL through Exec.
package storage

import (
	"context"
	"fmt"
	"sync"

	"soetl/internal/schema"
)

// Config selects and configures a backend.
type Config struct {
	Kind string // registered backend name, e.g. "postgres"
	DSN  string // backend connection string
}

// Repository is the minimal surface the loader needs from a database.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to columns order) into table and
	// returns the number of rows inserted.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	// Exec runs one statement, typically DDL.
	Exec(ctx context.Context, stmt string) error
	// Close releases the underlying connections.
	Close() error
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. Called
// from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Importing soetl/internal/storage/all
// (blank import) makes every built-in backend available.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// EnsureTable creates the table for a schema declaration if it does not
// exist yet.
func EnsureTable(ctx context.Context, repo Repository, t schema.Table) error {
	stmt, err := schema.BuildCreateTableSQL(t)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("storage: create table %s: %w", t.Name, err)
	}
	return nil
}
