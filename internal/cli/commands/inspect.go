package commands

import (
	"github.com/leapstack-labs/leapmt/internal/cli/output"
	"github.com/leapstack-labs/leapmt/internal/sheet"
	"github.com/spf13/cobra"
)

const previewWidth = 60

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Preview the pairs a load would insert",
		Long: `Read the spreadsheet exactly as load does and show the detected columns and
the first pairs, without touching any store.`,
		Example: `  leapmt inspect
  leapmt inspect --excel data.xlsx --sheet 1 --limit 20`,
		RunE: runInspect,
	}

	f := cmd.Flags()
	f.String("excel", "", "Path to the spreadsheet (.xlsx or .csv)")
	f.String("sheet", "", "Sheet name or zero-based index")
	f.String("null-token", "", "Cell text treated as missing (e.g. nan)")
	f.Int("limit", 10, "Number of pairs to preview")

	return cmd
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	in := cc.Cfg.Input

	ex, err := sheet.Load(in.Path, in.Sheet, sheet.NormalizeOptions{NullToken: in.NullToken})
	if err != nil {
		return cc.Fail(err)
	}

	preview := ex.Pairs
	if limit >= 0 && len(preview) > limit {
		preview = preview[:limit]
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		pairs := make([]output.PairInfo, len(preview))
		for i, p := range preview {
			pairs[i] = output.PairInfo{Marathi: p.MarathiText, English: p.EnglishText}
		}
		return r.JSON(output.InspectOutput{
			Input:        in.Path,
			Sheet:        ex.Sheet,
			SourceColumn: ex.Columns.SourceName,
			TargetColumn: ex.Columns.TargetName,
			Rows:         ex.Rows,
			Pairs:        len(ex.Pairs),
			Preview:      pairs,
		})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Sheet "+ex.Sheet))
		r.Println("")
		r.Println(output.FormatKeyValue("Marathi column", ex.Columns.SourceName))
		r.Println(output.FormatKeyValue("English column", ex.Columns.TargetName))
		r.Println(output.FormatKeyValue("Pairs", len(ex.Pairs)))
		r.Println("")
	} else {
		r.Header(1, "Sheet "+ex.Sheet)
		r.KeyValue("Marathi column", ex.Columns.SourceName)
		r.KeyValue("English column", ex.Columns.TargetName)
		r.KeyValue("Pairs", len(ex.Pairs))
		r.Println("")
	}

	rows := make([][]string, len(preview))
	for i, p := range preview {
		rows[i] = []string{
			output.Truncate(p.MarathiText, previewWidth),
			output.Truncate(p.EnglishText, previewWidth),
		}
	}
	r.Table([]string{ex.Columns.SourceName, ex.Columns.TargetName}, rows)
	return nil
}
