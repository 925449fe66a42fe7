package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapmt/internal/cli/output"
	"github.com/leapstack-labs/leapmt/internal/loader"
	"github.com/leapstack-labs/leapmt/internal/sheet"
	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load translation pairs from a spreadsheet into the store",
		Long: `Read Marathi-English pairs from an Excel workbook or CSV file and insert
them into the configured store.

The Marathi and English columns are detected from the header row; when no
header matches, the first column is Marathi and the second English. Blank
rows and rows without Marathi text are skipped. Each run appends; the table
is created if it does not exist.

Output adapts to environment:
  - Terminal: Styled, colored output with a progress bar
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Load into the local SQLite database
  USE_SQLITE=1 leapmt load

  # Load a specific workbook and sheet into SQL Server
  leapmt load --excel data.xlsx --sheet Pairs --backend mssql

  # Fall back to SQLite when the server is unreachable
  leapmt load --fallback-local`,
		RunE: runLoad,
	}

	f := cmd.Flags()
	f.String("excel", "", "Path to the spreadsheet (.xlsx or .csv)")
	f.String("sheet", "", "Sheet name or zero-based index")
	f.String("null-token", "", "Cell text treated as missing (e.g. nan)")
	f.Int("batch-size", 0, "Rows per INSERT statement")
	f.Bool("fallback-local", false, "Use the local SQLite store when the server is unreachable")

	return cmd
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer
	mode := r.EffectiveMode()

	var bar *output.Progress

	opts := loader.Options{
		Input:   cc.Cfg.Input,
		Store:   cc.Cfg.Store,
		BaseDir: cc.Cfg.ProjectRoot,
		OnRead: func(ex *sheet.Extract) {
			bar = r.NewProgress("inserting", len(ex.Pairs))
		},
	}
	if mode == output.ModeText && r.IsTTY() {
		opts.Progress = func(inserted, _ int) { bar.Set(inserted) }
	}

	res, err := loader.New(opts, cc.Logger).Run(cmd.Context())
	bar.Done()
	if err != nil {
		if res != nil && res.Inserted > 0 {
			r.Warning(fmt.Sprintf("%d rows were committed before the failure", res.Inserted))
		}
		return cc.Fail(err)
	}

	if res.FallbackUsed && mode != output.ModeJSON {
		r.Warning(fmt.Sprintf("%s unreachable, loaded into local SQLite instead", cc.Cfg.Store.Backend))
	}

	switch mode {
	case output.ModeJSON:
		return r.JSON(output.LoadOutput{
			RunID:        res.RunID,
			Input:        cc.Cfg.Input.Path,
			Sheet:        res.Sheet,
			SourceColumn: res.Columns.SourceName,
			TargetColumn: res.Columns.TargetName,
			Backend:      res.Backend,
			Table:        res.Table,
			Rows:         res.Rows,
			Read:         res.Read,
			Inserted:     res.Inserted,
			Total:        res.Total,
			FallbackUsed: res.FallbackUsed,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Load Complete"))
		r.Println("")
		r.Println(output.FormatKeyValue("Input", cc.Cfg.Input.Path))
		r.Println(output.FormatKeyValue("Sheet", res.Sheet))
		r.Println(output.FormatKeyValue("Columns", res.Columns.SourceName+" -> "+res.Columns.TargetName))
		r.Println(output.FormatKeyValue("Store", res.Backend+"."+res.Table))
		r.Println(output.FormatKeyValue("Pairs read", res.Read))
		r.Println(output.FormatKeyValue("Inserted", res.Inserted))
		r.Println(output.FormatKeyValue("Total rows", res.Total))
		r.Println(output.FormatKeyValue("Run", res.RunID))
	default:
		r.Header(1, "Load Complete")
		r.KeyValue("Input", cc.Cfg.Input.Path)
		r.KeyValue("Sheet", res.Sheet)
		r.KeyValue("Columns", res.Columns.SourceName+" -> "+res.Columns.TargetName)
		r.KeyValue("Store", res.Backend+"."+res.Table)
		r.Println("")
		r.Success(fmt.Sprintf("Inserted %d rows (%d pairs read). Total rows in table: %d", res.Inserted, res.Read, res.Total))
		r.Muted("Run " + res.RunID)
	}
	return nil
}
