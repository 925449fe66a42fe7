package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/leapmt/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store the loaded config in context.
type configKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix is the prefix of structured environment overrides. Nested keys
// use a double underscore: LEAPMT_STORE__BATCH_SIZE sets store.batch_size.
const EnvPrefix = "LEAPMT_"

var configFileUsed string

// legacyEnv maps the environment names of the original pipeline scripts to
// config keys. USE_SQLITE is handled separately since it maps a switch to a
// backend name.
var legacyEnv = map[string]string{
	"EXCEL_PATH":           "input.path",
	"EXCEL_SHEET":          "input.sheet",
	"NULL_TOKEN":           "input.null_token",
	"STORE_BACKEND":        "store.backend",
	"SQLITE_PATH":          "store.path",
	"MSSQL_SERVER":         "store.host",
	"MSSQL_PORT":           "store.port",
	"MSSQL_DATABASE":       "store.database",
	"MSSQL_UID":            "store.user",
	"MSSQL_PWD":            "store.password",
	"STORE_FALLBACK_LOCAL": "store.fallback_local",
	"TRANSLATION_TABLE":    "store.table",
	"INSERT_BATCH_SIZE":    "store.batch_size",
	"MODEL_NAME":           "train.model_name",
	"MODEL_OUTPUT_DIR":     "train.output_dir",
	"TRAIN_EPOCHS":         "train.epochs",
	"TRAIN_BATCH_SIZE":     "train.batch_size",
	"MAX_SOURCE_LENGTH":    "train.max_source_length",
	"MAX_TARGET_LENGTH":    "train.max_target_length",
	"TRAIN_SPLIT":          "train.split",
	"LEARNING_RATE":        "train.learning_rate",
	"WARMUP_RATIO":         "train.warmup_ratio",
	"SAVE_STEPS":           "train.save_steps",
	"MAX_SAMPLES":          "train.max_samples",
	"TRAINER_COMMAND":      "train.command",
}

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// command-local and never reach the config.
var flagKeys = map[string]string{
	"excel":          "input.path",
	"sheet":          "input.sheet",
	"null-token":     "input.null_token",
	"backend":        "store.backend",
	"db-path":        "store.path",
	"table":          "store.table",
	"batch-size":     "store.batch_size",
	"fallback-local": "store.fallback_local",
	"model":          "train.model_name",
	"output-dir":     "train.output_dir",
	"epochs":         "train.epochs",
	"max-samples":    "train.max_samples",
	"trainer":        "train.command",
	"verbose":        "verbose",
	"output":         "output",
	"log-format":     "log_format",
}

// pathFlags are flags whose values are paths relative to the working directory.
var pathFlags = map[string]bool{"excel": true, "db-path": true, "output-dir": true}

// envLayer orders environment sources so later layers win deterministically.
type envLayer int

const (
	layerUseSQLite envLayer = iota
	layerLegacy
	layerPrefixed
)

var envLayers = []envLayer{layerUseSQLite, layerLegacy, layerPrefixed}

// mapEnv maps one environment variable to a config key for a layer.
// An empty key means the variable does not belong to the layer.
func mapEnv(layer envLayer, name, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	switch layer {
	case layerUseSQLite:
		if name == "USE_SQLITE" {
			return "store.backend", intconfig.BackendFromUseSQLite(value)
		}
	case layerLegacy:
		if key, ok := legacyEnv[name]; ok {
			return key, value
		}
	case layerPrefixed:
		if strings.HasPrefix(name, EnvPrefix) {
			key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
			return strings.ReplaceAll(key, "__", "."), value
		}
	}
	return "", nil
}

func defaults() map[string]any {
	return map[string]any{
		"input.path":              intconfig.DefaultExcelPath,
		"input.sheet":             intconfig.DefaultSheet,
		"input.null_token":        "",
		"store.backend":           intconfig.DefaultBackend(),
		"store.table":             intconfig.DefaultTable,
		"store.batch_size":        intconfig.DefaultBatchSize,
		"store.fallback_local":    false,
		"train.model_name":        intconfig.DefaultModelName,
		"train.output_dir":        intconfig.DefaultOutputDir,
		"train.epochs":            intconfig.DefaultEpochs,
		"train.batch_size":        intconfig.DefaultTrainBatchSize,
		"train.max_source_length": intconfig.DefaultMaxSourceLength,
		"train.max_target_length": intconfig.DefaultMaxTargetLength,
		"train.split":             intconfig.DefaultSplit,
		"train.learning_rate":     intconfig.DefaultLearningRate,
		"train.warmup_ratio":      intconfig.DefaultWarmupRatio,
		"train.save_steps":        intconfig.DefaultSaveSteps,
		"train.max_samples":       0,
		"train.command":           intconfig.DefaultTrainerCommand,
		"train.seed":              42,
		"verbose":                 false,
		"output":                  DefaultOutput,
		"log_format":              DefaultLogFormat,
	}
}

// inferProjectRoot determines the directory relative paths resolve against.
// Priority: explicit config file > leapmt.yaml found upward from CWD > CWD.
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}
	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := intconfig.FindProjectRoot(cwd, maxUpwardSearchLevels); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, in-memory or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from defaults, the config file, the .env
// file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > .env > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	projectRoot := inferProjectRoot(cfgFile)

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		cfgFile = intconfig.FindConfigFile(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. .env file. Read without touching the process environment so real
	// environment variables keep precedence.
	dotenv := filepath.Join(projectRoot, intconfig.EnvFileName)
	if _, err := os.Stat(dotenv); err == nil {
		vars, err := godotenv.Read(dotenv)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", dotenv, err)
		}
		for _, layer := range envLayers {
			layered := map[string]any{}
			for name, value := range vars {
				if key, v := mapEnv(layer, name, value); key != "" {
					layered[key] = v
				}
			}
			if err := k.Load(confmap.Provider(layered, "."), nil); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", dotenv, err)
			}
		}
	}

	// 4. Environment variables
	for _, layer := range envLayers {
		layer := layer
		if err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
			return mapEnv(layer, name, value)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	// 5. Flags (highest priority)
	flagPaths := map[string]string{}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			if pathFlags[f.Name] {
				if abs, err := filepath.Abs(f.Value.String()); err == nil {
					flagPaths[key] = abs
				}
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 6. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	intconfig.ApplyStoreDefaults(&cfg.Store)

	// Paths given as flags are relative to CWD, all others to the project root.
	resolve := func(key string, p *string) {
		if abs, ok := flagPaths[key]; ok {
			*p = abs
			return
		}
		*p = resolvePathRelativeTo(*p, projectRoot)
	}
	resolve("input.path", &cfg.Input.Path)
	resolve("train.output_dir", &cfg.Train.OutputDir)
	if cfg.Store.IsEmbedded() || (cfg.Store.FallbackLocal && cfg.Store.Path != "") {
		resolve("store.path", &cfg.Store.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config stored by WithConfig, or nil.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return nil
}

// NewLogger builds the CLI logger writing to w. Verbose enables debug
// records; format selects the text or JSON handler.
func NewLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
