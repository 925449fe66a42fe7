// Package config provides the configuration types shared by the leapmt
// pipeline stages. It is decoupled from CLI concerns; the cli/config package
// layers files, environment and flags on top of it.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmt/pkg/adapter"
)

// InputConfig selects the spreadsheet to load.
type InputConfig struct {
	Path      string `koanf:"path"`
	Sheet     string `koanf:"sheet"`
	NullToken string `koanf:"null_token"`
}

// StoreConfig holds the store backend and table settings.
type StoreConfig struct {
	Backend  string `koanf:"backend"` // sqlite, mssql, postgres, duckdb
	Path     string `koanf:"path"`    // embedded backends
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Table         string `koanf:"table"`
	BatchSize     int    `koanf:"batch_size"`
	FallbackLocal bool   `koanf:"fallback_local"`

	// Options are passed to the driver connection string.
	Options map[string]string `koanf:"options"`

	// Params holds backend-specific settings (pragmas, encrypt, duckdb settings).
	Params map[string]any `koanf:"params"`
}

// Validate checks the store section.
func (s *StoreConfig) Validate() error {
	if s.Backend == "" {
		return fmt.Errorf("store.backend is required")
	}
	if !adapter.IsRegistered(s.Backend) {
		return &adapter.UnknownAdapterError{
			Type:      s.Backend,
			Available: adapter.ListAdapters(),
		}
	}
	if err := adapter.ValidateTableName(s.Table); err != nil {
		return fmt.Errorf("store.table: %w", err)
	}
	if s.BatchSize < 0 {
		return fmt.Errorf("store.batch_size must be >= 0, got %d", s.BatchSize)
	}
	return nil
}

// IsEmbedded reports whether the backend stores data in a local file.
func (s *StoreConfig) IsEmbedded() bool {
	switch strings.ToLower(s.Backend) {
	case BackendSQLite, BackendDuckDB:
		return true
	}
	return false
}

// TrainConfig holds the fine-tuning hyperparameters and trainer settings.
type TrainConfig struct {
	ModelName       string  `koanf:"model_name"`
	OutputDir       string  `koanf:"output_dir"`
	Epochs          int     `koanf:"epochs"`
	BatchSize       int     `koanf:"batch_size"`
	MaxSourceLength int     `koanf:"max_source_length"`
	MaxTargetLength int     `koanf:"max_target_length"`
	Split           float64 `koanf:"split"`
	LearningRate    float64 `koanf:"learning_rate"`
	WarmupRatio     float64 `koanf:"warmup_ratio"`
	SaveSteps       int     `koanf:"save_steps"`
	MaxSamples      int     `koanf:"max_samples"` // 0 = all
	Command         string  `koanf:"command"`
	Seed            int64   `koanf:"seed"`
}

// Validate checks the train section.
func (t *TrainConfig) Validate() error {
	switch {
	case t.ModelName == "":
		return fmt.Errorf("train.model_name is required")
	case t.OutputDir == "":
		return fmt.Errorf("train.output_dir is required")
	case t.Epochs <= 0:
		return fmt.Errorf("train.epochs must be > 0, got %d", t.Epochs)
	case t.BatchSize <= 0:
		return fmt.Errorf("train.batch_size must be > 0, got %d", t.BatchSize)
	case t.MaxSourceLength <= 1:
		return fmt.Errorf("train.max_source_length must be > 1, got %d", t.MaxSourceLength)
	case t.MaxTargetLength <= 1:
		return fmt.Errorf("train.max_target_length must be > 1, got %d", t.MaxTargetLength)
	case t.Split <= 0 || t.Split > 1:
		return fmt.Errorf("train.split must be in (0, 1], got %g", t.Split)
	case t.LearningRate <= 0:
		return fmt.Errorf("train.learning_rate must be > 0, got %g", t.LearningRate)
	case t.WarmupRatio < 0 || t.WarmupRatio >= 1:
		return fmt.Errorf("train.warmup_ratio must be in [0, 1), got %g", t.WarmupRatio)
	case t.SaveSteps <= 0:
		return fmt.Errorf("train.save_steps must be > 0, got %d", t.SaveSteps)
	case t.MaxSamples < 0:
		return fmt.Errorf("train.max_samples must be >= 0, got %d", t.MaxSamples)
	}
	return nil
}

// EvalBatchSize is the per-device evaluation batch size.
func (t *TrainConfig) EvalBatchSize() int {
	return 2 * t.BatchSize
}
