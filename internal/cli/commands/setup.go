// Package commands implements the leapmt subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapmt/internal/cli/config"
	"github.com/leapstack-labs/leapmt/internal/cli/output"
	"github.com/leapstack-labs/leapmt/pkg/adapter"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config and logger stored by the root
// command and builds a renderer for the configured output mode.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetConfig(cmd.Context())
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	mode := output.Mode(cfg.OutputFormat)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// Fail reports err in the renderer's mode and returns it unchanged so the
// process exits non-zero. JSON mode gets a structured error document.
func (c *CommandContext) Fail(err error) error {
	hint := ""
	var connErr *adapter.ConnectError
	if errors.As(err, &connErr) {
		hint = connErr.Hint()
	}
	if c.Renderer.EffectiveMode() == output.ModeJSON {
		_ = c.Renderer.JSON(output.ErrorOutput{Error: err.Error(), Hint: hint})
	}
	return err
}
