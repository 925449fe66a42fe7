// Package config provides configuration management for the leapmt CLI.
//
// This package layers config files, .env files, environment variables and
// flags over the shared configuration types from internal/config, which are
// re-exported here via type aliases for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/leapmt/internal/config"
)

// InputConfig is an alias for the shared spreadsheet input configuration.
type InputConfig = sharedcfg.InputConfig

// StoreConfig is an alias for the shared store configuration.
type StoreConfig = sharedcfg.StoreConfig

// TrainConfig is an alias for the shared training configuration.
type TrainConfig = sharedcfg.TrainConfig

// Config holds all CLI configuration options.
type Config struct {
	Input        InputConfig `koanf:"input"`
	Store        StoreConfig `koanf:"store"`
	Train        TrainConfig `koanf:"train"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	LogFormat    string      `koanf:"log_format"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default CLI values.
const (
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat = "text"
)
