// Package adapter provides the store adapter contract for leapmt and the
// shared database/sql machinery every backend builds on.
//
// This package contains the public contract that all store backends must implement.
// Concrete backend implementations are in pkg/adapters/ subdirectories and
// register themselves with the registry from their init() functions.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapmt/pkg/core"
)

// Config is an alias for core.StoreConfig.
type Config = core.StoreConfig

// Adapter defines the interface that all store backends must implement.
// Every backend persists translation pairs into a table with the columns
// (id, marathi_text, english_text, created_at).
type Adapter interface {
	// Connect establishes a connection to the store using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// EnsureTable creates the pairs table if it does not already exist.
	// Calling it on an existing table is a no-op.
	EnsureTable(ctx context.Context, table string) error

	// InsertBatch inserts pairs in chunks of opts.BatchSize, one multi-row
	// INSERT per chunk, each committed before the next one starts.
	// It returns the number of rows inserted.
	InsertBatch(ctx context.Context, table string, pairs []core.TranslationPair, opts InsertOptions) (int, error)

	// CountRows returns the number of rows currently in the table.
	CountRows(ctx context.Context, table string) (int64, error)

	// ReadPairs returns stored pairs in insertion order.
	// A limit of zero or less reads every row.
	ReadPairs(ctx context.Context, table string, limit int) ([]core.TranslationPair, error)

	// Dialect returns the static SQL dialect of this backend.
	Dialect() *Dialect
}

// InsertOptions controls InsertBatch.
type InsertOptions struct {
	// BatchSize is the number of rows per INSERT statement.
	// Zero or less inserts everything in a single statement.
	BatchSize int

	// Progress, when set, is called after every committed chunk if more
	// than one chunk is needed.
	Progress func(inserted, total int)
}
