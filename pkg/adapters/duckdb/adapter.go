// Package duckdb provides a DuckDB store backend for leapmt.
//
// DuckDB is embedded like SQLite; it suits large corpora that are later
// analysed with DuckDB itself.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/leapstack-labs/leapmt/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Name is the registry name of this backend.
const Name = "duckdb"

// DefaultPath is the database file used when none is configured.
const DefaultPath = "marathi_english.duckdb"

// Dialect is the DuckDB dialect.
var Dialect = &adapter.Dialect{
	Name:        Name,
	Embedded:    true,
	Placeholder: sq.Question,
	OpenQuote:   `"`,
	CloseQuote:  `"`,
	// Large VALUES lists are slow to bind in the duckdb driver.
	MaxBatchRows: 5000,
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(Dialect, logger)}
}

// Connect opens the DuckDB database and applies Params.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	var params Params
	if err := adapter.DecodeParams(cfg.Params, &params); err != nil {
		return err
	}
	stmts, err := params.setupStatements()
	if err != nil {
		return err
	}

	if path != ":memory:" {
		if err := adapter.EnsureParentDir(path); err != nil {
			return err
		}
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", path))
	cfg.Path = path
	if err := a.Open(ctx, "duckdb", path, cfg); err != nil {
		return err
	}

	// SET is session scoped; pin the pool to one connection so it sticks.
	if len(params.Settings) > 0 {
		a.DB.SetMaxOpenConns(1)
	}
	for _, stmt := range stmts {
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			a.DB = nil
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}
	return nil
}

// EnsureTable creates the id sequence and the pairs table if they do not
// exist.
func (a *Adapter) EnsureTable(ctx context.Context, table string) error {
	if err := adapter.ValidateTableName(table); err != nil {
		return err
	}
	seq := Dialect.QuoteIdent(table + "_id_seq")
	if err := a.Exec(ctx, "CREATE SEQUENCE IF NOT EXISTS "+seq); err != nil {
		return err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT PRIMARY KEY DEFAULT nextval('%s_id_seq'),
		marathi_text VARCHAR NOT NULL,
		english_text VARCHAR NOT NULL,
		created_at TIMESTAMP DEFAULT current_timestamp
	)`, Dialect.QuoteIdent(table), table)
	return a.Exec(ctx, ddl)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
