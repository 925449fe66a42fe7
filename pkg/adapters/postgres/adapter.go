// Package postgres provides a PostgreSQL store backend for leapmt.
//
// Import this package with a blank identifier to register the backend:
//
//	import _ "github.com/leapstack-labs/leapmt/pkg/adapters/postgres"
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/leapstack-labs/leapmt/pkg/adapter"

	// registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Name is the registry name of this backend.
const Name = "postgres"

// Dialect is the PostgreSQL dialect.
var Dialect = &adapter.Dialect{
	Name:        Name,
	Placeholder: sq.Dollar,
	OpenQuote:   `"`,
	CloseQuote:  `"`,
	// The wire protocol allows 65535 bind parameters per statement.
	MaxBatchRows: 30000,
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(Dialect, logger)}
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	return a.Open(ctx, "pgx", buildPostgresDSN(cfg), cfg)
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// EnsureTable creates the pairs table if it does not exist.
func (a *Adapter) EnsureTable(ctx context.Context, table string) error {
	if err := adapter.ValidateTableName(table); err != nil {
		return err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		marathi_text TEXT NOT NULL,
		english_text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, Dialect.QuoteIdent(table))
	return a.Exec(ctx, ddl)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
