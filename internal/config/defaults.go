package config

import (
	"runtime"
	"strings"

	"github.com/leapstack-labs/leapmt/pkg/core"
)

// Default configuration values.
const (
	DefaultExcelPath  = "Marathi to English data for LLM.xlsx"
	DefaultSheet      = "0"
	DefaultTable      = "marathi_english_pairs"
	DefaultBatchSize  = 500
	DefaultSQLitePath = "marathi_english.db"
	DefaultDatabase   = "marathi_english"
	DefaultHost       = "localhost"

	DefaultModelName       = "Helsinki-NLP/opus-mt-mr-en"
	DefaultOutputDir       = "marathi_english_model"
	DefaultEpochs          = 3
	DefaultTrainBatchSize  = 8
	DefaultMaxSourceLength = 128
	DefaultMaxTargetLength = 128
	DefaultSplit           = 0.95
	DefaultLearningRate    = 2e-5
	DefaultWarmupRatio     = 0.1
	DefaultSaveSteps       = 5000
	DefaultTrainerCommand  = "python3 -m leapmt_trainer --config {config}"
)

// Backend names known to the config layer.
const (
	BackendSQLite   = "sqlite"
	BackendMSSQL    = "mssql"
	BackendPostgres = "postgres"
	BackendDuckDB   = "duckdb"
)

// DefaultBackend returns the store backend used when none is configured.
// macOS has no SQL Server, so it defaults to the embedded store there.
func DefaultBackend() string {
	return defaultBackendFor(runtime.GOOS)
}

func defaultBackendFor(goos string) string {
	if goos == "darwin" {
		return BackendSQLite
	}
	return BackendMSSQL
}

// BackendFromUseSQLite maps the legacy USE_SQLITE switch to a backend name.
func BackendFromUseSQLite(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return BackendSQLite
	default:
		return BackendMSSQL
	}
}

// DefaultPortFor returns the standard port of a networked backend, or zero.
func DefaultPortFor(backend string) int {
	switch strings.ToLower(backend) {
	case BackendMSSQL:
		return 1433
	case BackendPostgres:
		return 5432
	}
	return 0
}

// ApplyStoreDefaults fills unset connection fields based on the backend.
func ApplyStoreDefaults(s *StoreConfig) {
	if s == nil {
		return
	}
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.Backend == "" {
		s.Backend = DefaultBackend()
	}
	if s.Table == "" {
		s.Table = DefaultTable
	}

	switch s.Backend {
	case BackendSQLite:
		if s.Path == "" {
			s.Path = DefaultSQLitePath
		}
	case BackendDuckDB:
		if s.Path == "" {
			s.Path = strings.TrimSuffix(DefaultSQLitePath, ".db") + ".duckdb"
		}
	default:
		if s.Host == "" {
			s.Host = DefaultHost
		}
		if s.Port == 0 {
			s.Port = DefaultPortFor(s.Backend)
		}
		if s.Database == "" {
			s.Database = DefaultDatabase
		}
	}
}

// LocalFallback returns the embedded store config used when a networked
// store is unreachable and fallback is enabled. It writes to the configured
// store.path (SQLITE_PATH) so a later sqlite-backed train reads the same file.
func (s StoreConfig) LocalFallback() StoreConfig {
	path := s.Path
	if path == "" {
		path = DefaultSQLitePath
	}
	return StoreConfig{
		Backend:   BackendSQLite,
		Path:      path,
		Table:     s.Table,
		BatchSize: s.BatchSize,
	}
}

// AdapterConfig converts the store section into the adapter connection config.
func (s StoreConfig) AdapterConfig() core.StoreConfig {
	return core.StoreConfig{
		Backend:  s.Backend,
		Path:     s.Path,
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		Username: s.User,
		Password: s.Password,
		Options:  s.Options,
		Params:   s.Params,
	}
}
