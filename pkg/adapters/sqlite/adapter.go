// Package sqlite provides the embedded SQLite store backend for leapmt.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	sq "github.com/Masterminds/squirrel"
	"github.com/leapstack-labs/leapmt/pkg/adapter"

	// pure Go sqlite driver, registers "sqlite".
	_ "modernc.org/sqlite"
)

// Name is the registry name of this backend.
const Name = "sqlite"

// DefaultPath is the database file used when none is configured.
const DefaultPath = "marathi_english.db"

// Dialect is the SQLite dialect.
var Dialect = &adapter.Dialect{
	Name:        Name,
	Embedded:    true,
	Placeholder: sq.Question,
	OpenQuote:   "[",
	CloseQuote:  "]",
	// SQLITE_MAX_VARIABLE_NUMBER is 32766, two columns per row.
	MaxBatchRows: 16000,
}

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// BusyTimeout in milliseconds before a locked database returns SQLITE_BUSY.
	BusyTimeout int `mapstructure:"busy_timeout"`

	// JournalMode, e.g. "WAL" or "DELETE".
	JournalMode string `mapstructure:"journal_mode"`
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(Dialect, logger)}
}

// Connect opens (creating if needed) the SQLite database file.
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

	if path != ":memory:" {
		if err := adapter.EnsureParentDir(path); err != nil {
			return err
		}
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))
	cfg.Path = path
	return a.Open(ctx, "sqlite", buildDSN(path, params), cfg)
}

// buildDSN appends pragmas understood by modernc.org/sqlite.
func buildDSN(path string, p Params) string {
	q := url.Values{}
	if p.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", p.BusyTimeout))
	}
	if p.JournalMode != "" {
		q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", p.JournalMode))
	}
	if len(q) == 0 {
		return path
	}
	return "file:" + path + "?" + q.Encode()
}

// EnsureTable creates the pairs table if it does not exist.
func (a *Adapter) EnsureTable(ctx context.Context, table string) error {
	if err := adapter.ValidateTableName(table); err != nil {
		return err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		marathi_text TEXT NOT NULL,
		english_text TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	)`, Dialect.QuoteIdent(table))
	return a.Exec(ctx, ddl)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
