// Package mssql provides the Microsoft SQL Server store backend for leapmt.
//
// Import this package with a blank identifier to register the backend:
//
//	import _ "github.com/leapstack-labs/leapmt/pkg/adapters/mssql"
package mssql

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/leapstack-labs/leapmt/pkg/adapter"

	// registers the "sqlserver" driver.
	_ "github.com/microsoft/go-mssqldb"
)

// Name is the registry name of this backend.
const Name = "mssql"

// Defaults applied when the config leaves them empty.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 1433
	DefaultDatabase = "marathi_english"
)

// Dialect is the T-SQL dialect.
var Dialect = &adapter.Dialect{
	Name:        Name,
	Placeholder: sq.AtP,
	OpenQuote:   "[",
	CloseQuote:  "]",
	// A table value constructor accepts at most 1000 rows.
	MaxBatchRows: 1000,
	TopLimit:     true,
}

// Params holds SQL Server specific configuration.
type Params struct {
	// Encrypt is passed through as the driver's encrypt option
	// ("true", "false", "disable").
	Encrypt string `mapstructure:"encrypt"`

	// TrustServerCertificate skips certificate validation.
	TrustServerCertificate bool `mapstructure:"trust_server_certificate"`

	// ConnectionTimeout in seconds. Zero keeps the driver default.
	ConnectionTimeout int `mapstructure:"connection_timeout"`

	// AppName is reported to the server.
	AppName string `mapstructure:"app_name"`
}

// Adapter implements the adapter.Adapter interface for SQL Server.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQL Server adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(Dialect, logger)}
}

// Connect establishes a connection to SQL Server.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	var params Params
	if err := adapter.DecodeParams(cfg.Params, &params); err != nil {
		return err
	}

	a.Logger.Debug("connecting to sql server",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	return a.Open(ctx, "sqlserver", buildDSN(cfg, params), cfg)
}

// buildDSN constructs a sqlserver:// URL. A host written as
// "server\instance" selects a named instance.
func buildDSN(cfg adapter.Config, p Params) string {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	var instance string
	if i := strings.Index(host, `\`); i >= 0 {
		host, instance = host[:i], host[i+1:]
	}

	database := cfg.Database
	if database == "" {
		database = DefaultDatabase
	}

	u := &url.URL{Scheme: "sqlserver"}
	if instance != "" {
		// The SQL Browser service resolves the port for named instances.
		u.Host = host
		if cfg.Port != 0 {
			u.Host = net.JoinHostPort(host, strconv.Itoa(cfg.Port))
		}
		u.Path = instance
	} else {
		port := cfg.Port
		if port == 0 {
			port = DefaultPort
		}
		u.Host = net.JoinHostPort(host, strconv.Itoa(port))
	}

	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	q := url.Values{}
	q.Set("database", database)
	if p.Encrypt != "" {
		q.Set("encrypt", p.Encrypt)
	}
	if p.TrustServerCertificate {
		q.Set("TrustServerCertificate", "true")
	}
	if p.ConnectionTimeout > 0 {
		q.Set("connection timeout", strconv.Itoa(p.ConnectionTimeout))
	}
	if p.AppName != "" {
		q.Set("app name", p.AppName)
	}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// EnsureTable creates the pairs table if it does not exist.
func (a *Adapter) EnsureTable(ctx context.Context, table string) error {
	if err := adapter.ValidateTableName(table); err != nil {
		return err
	}
	ddl := fmt.Sprintf(`IF NOT EXISTS (SELECT * FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_NAME = %s)
CREATE TABLE %s (
	id INT IDENTITY(1,1) PRIMARY KEY,
	marathi_text NVARCHAR(MAX) NOT NULL,
	english_text NVARCHAR(MAX) NOT NULL,
	created_at DATETIME2 DEFAULT GETUTCDATE()
)`, Dialect.FormatPlaceholder(1), Dialect.QuoteIdent(table))
	return a.Exec(ctx, ddl, table)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
