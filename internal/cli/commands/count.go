package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapmt/internal/cli/output"
	"github.com/leapstack-labs/leapmt/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the number of pairs in the store",
		Long:  `Connect to the configured store and print the row count of the pairs table.`,
		Example: `  USE_SQLITE=1 leapmt count
  leapmt count --backend postgres --output json`,
		RunE: runCount,
	}
}

func runCount(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	store := cc.Cfg.Store
	ctx := cmd.Context()

	a, err := adapter.NewAdapter(store.AdapterConfig(), cc.Logger)
	if err != nil {
		return cc.Fail(err)
	}
	if err := a.Connect(ctx, store.AdapterConfig()); err != nil {
		return cc.Fail(err)
	}
	defer func() { _ = a.Close() }()

	n, err := a.CountRows(ctx, store.Table)
	if err != nil {
		return cc.Fail(err)
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.CountOutput{Backend: store.Backend, Table: store.Table, Rows: n})
	case output.ModeMarkdown:
		r.Println(output.FormatKeyValue(store.Backend+"."+store.Table, n))
	default:
		r.StatusLine(store.Table, "success", fmt.Sprintf("%d rows (%s)", n, store.Backend))
	}
	return nil
}
