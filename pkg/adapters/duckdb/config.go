package duckdb

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load (e.g., "json", "icu").
	Extensions []string `mapstructure:"extensions"`

	// Settings to apply at session level (e.g., memory_limit, threads).
	Settings map[string]string `mapstructure:"settings"`
}

var settingNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// setupStatements returns the statements run after connecting, in order:
// INSTALL/LOAD per extension, then one SET per setting sorted by name.
func (p Params) setupStatements() ([]string, error) {
	var stmts []string
	for _, ext := range p.Extensions {
		if !settingNamePattern.MatchString(ext) {
			return nil, fmt.Errorf("invalid duckdb extension name %q", ext)
		}
		stmts = append(stmts, "INSTALL "+ext, "LOAD "+ext)
	}

	names := make([]string, 0, len(p.Settings))
	for name := range p.Settings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !settingNamePattern.MatchString(name) {
			return nil, fmt.Errorf("invalid duckdb setting name %q", name)
		}
		value := strings.ReplaceAll(p.Settings[name], "'", "''")
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", name, value))
	}
	return stmts, nil
}
