package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapmt/pkg/adapters/mssql"
	_ "github.com/leapstack-labs/leapmt/pkg/adapters/sqlite"
)

func TestDefaultBackendFor(t *testing.T) {
	assert.Equal(t, BackendSQLite, defaultBackendFor("darwin"))
	assert.Equal(t, BackendMSSQL, defaultBackendFor("linux"))
	assert.Equal(t, BackendMSSQL, defaultBackendFor("windows"))
}

func TestBackendFromUseSQLite(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " yes "} {
		assert.Equal(t, BackendSQLite, BackendFromUseSQLite(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "maybe"} {
		assert.Equal(t, BackendMSSQL, BackendFromUseSQLite(v), v)
	}
}

func TestApplyStoreDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   StoreConfig
		want StoreConfig
	}{
		{
			name: "sqlite",
			in:   StoreConfig{Backend: "SQLite"},
			want: StoreConfig{Backend: BackendSQLite, Path: DefaultSQLitePath, Table: DefaultTable},
		},
		{
			name: "mssql",
			in:   StoreConfig{Backend: "mssql", Table: "pairs"},
			want: StoreConfig{Backend: BackendMSSQL, Host: DefaultHost, Port: 1433, Database: DefaultDatabase, Table: "pairs"},
		},
		{
			name: "postgres keeps explicit port",
			in:   StoreConfig{Backend: "postgres", Port: 6543},
			want: StoreConfig{Backend: BackendPostgres, Host: DefaultHost, Port: 6543, Database: DefaultDatabase, Table: DefaultTable},
		},
		{
			name: "duckdb",
			in:   StoreConfig{Backend: "duckdb"},
			want: StoreConfig{Backend: BackendDuckDB, Path: "marathi_english.duckdb", Table: DefaultTable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			ApplyStoreDefaults(&got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       StoreConfig
		errSubstr string
	}{
		{name: "valid", cfg: StoreConfig{Backend: "sqlite", Table: "pairs"}},
		{name: "missing backend", cfg: StoreConfig{Table: "pairs"}, errSubstr: "store.backend is required"},
		{name: "unknown backend", cfg: StoreConfig{Backend: "oracle", Table: "pairs"}, errSubstr: "unknown store backend"},
		{name: "bad table", cfg: StoreConfig{Backend: "sqlite", Table: "a-b"}, errSubstr: "store.table"},
		{name: "negative batch", cfg: StoreConfig{Backend: "mssql", Table: "pairs", BatchSize: -1}, errSubstr: "batch_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func validTrain() TrainConfig {
	return TrainConfig{
		ModelName:       DefaultModelName,
		OutputDir:       DefaultOutputDir,
		Epochs:          DefaultEpochs,
		BatchSize:       DefaultTrainBatchSize,
		MaxSourceLength: DefaultMaxSourceLength,
		MaxTargetLength: DefaultMaxTargetLength,
		Split:           DefaultSplit,
		LearningRate:    DefaultLearningRate,
		WarmupRatio:     DefaultWarmupRatio,
		SaveSteps:       DefaultSaveSteps,
	}
}

func TestTrainConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TrainConfig)
		errSubstr string
	}{
		{name: "defaults", mutate: func(*TrainConfig) {}},
		{name: "zero epochs", mutate: func(c *TrainConfig) { c.Epochs = 0 }, errSubstr: "train.epochs"},
		{name: "split above one", mutate: func(c *TrainConfig) { c.Split = 1.5 }, errSubstr: "train.split"},
		{name: "split of one", mutate: func(c *TrainConfig) { c.Split = 1 }},
		{name: "tiny source length", mutate: func(c *TrainConfig) { c.MaxSourceLength = 1 }, errSubstr: "max_source_length"},
		{name: "negative samples", mutate: func(c *TrainConfig) { c.MaxSamples = -5 }, errSubstr: "max_samples"},
		{name: "warmup of one", mutate: func(c *TrainConfig) { c.WarmupRatio = 1 }, errSubstr: "warmup_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTrain()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEvalBatchSize(t *testing.T) {
	cfg := validTrain()
	assert.Equal(t, 16, cfg.EvalBatchSize())
}

func TestLocalFallback(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantPath string
	}{
		{name: "default file", path: "", wantPath: DefaultSQLitePath},
		{name: "configured file", path: "/data/custom_pairs.db", wantPath: "/data/custom_pairs.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StoreConfig{Backend: "mssql", Host: "db", Path: tt.path, Table: "pairs", BatchSize: 250}
			fb := s.LocalFallback()
			assert.Equal(t, StoreConfig{Backend: BackendSQLite, Path: tt.wantPath, Table: "pairs", BatchSize: 250}, fb)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("store: {}\n"), 0o600))

	assert.Equal(t, root, FindProjectRoot(nested, 10))
	assert.Empty(t, FindProjectRoot(nested, 1))
	assert.Equal(t, filepath.Join(root, ConfigFileName), FindConfigFile(root))
	assert.Empty(t, FindConfigFile(nested))
}
