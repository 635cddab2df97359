// Package source provides SQL-backed column sources for the rare-format
// check. Backends register themselves under a kind ("postgres", "mssql",
// "sqlite") from an init() in their own package; callers blank-import the
// backends they want and construct a source with Open.
package source

import (
	"context"
	"fmt"
	"sync"

	"formatcheck/internal/dataset"
)

// Config is the minimal configuration needed to open a column source.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is
//     backend-specific.
//   - Table must be non-empty. Columns empty means "all columns" and is
//     resolved by the backend (SELECT *).
//   - Limit <= 0 means no row limit.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
	Limit   int
}

// ColumnSource fetches string columns from a backing store.
//
// IMPORTANT: this interface is intentionally minimal. Each backend
// stringifies driver values its own way via dataset.Stringify; NULL becomes
// the empty string.
type ColumnSource interface {
	// FetchColumns runs one query and returns the sampled columns.
	FetchColumns(ctx context.Context) (*dataset.Dataset, error)

	// Close releases backend resources. Treat Close as "call once".
	Close()
}

type factory func(ctx context.Context, cfg Config) (ColumnSource, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "postgres", "sqlite").
//
// Call Register from an init() function in a backend package.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. Failing fast here avoids ambiguous
//     backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("source: Register called with empty kind")
	}
	if f == nil {
		panic("source: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("source: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// Open constructs a ColumnSource using the registered backend factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported, or if cfg.Table
//     is empty.
//   - Returns whatever error the registered factory returns.
func Open(ctx context.Context, cfg Config) (ColumnSource, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("source: missing source.Kind")
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("source: missing source.Table")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported source.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds. Useful for CLI error messages.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
