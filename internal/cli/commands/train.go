package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmt/internal/cli/output"
	"github.com/leapstack-labs/leapmt/internal/train"
	"github.com/spf13/cobra"
)

// NewTrainCommand creates the train command.
func NewTrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Prepare stored pairs and fine-tune a translation model",
		Long: `Read translation pairs from the local SQLite store, split them into train
and eval sets, and write parquet datasets plus a training_args.yaml manifest
under the output directory. The configured trainer command is then run with
{config} set to the manifest path.

The default trainer is the bundled leapmt_trainer Python package. It is
installed under <output-dir>/.trainer and placed on PYTHONPATH. It tokenizes
with the base model's own tokenizer, runs Seq2SeqTrainer, and saves the
model and tokenizer to the output directory. It needs the packages in
.trainer/requirements.txt.

Training reads from SQLite only; run 'USE_SQLITE=1 leapmt load' first.`,
		Example: `  # Prepare datasets and run the default trainer
  USE_SQLITE=1 leapmt train

  # Only write datasets and manifest
  leapmt train --prepare-only --max-samples 1000

  # Use a custom trainer
  leapmt train --trainer "python finetune.py --args {config}"`,
		RunE: runTrain,
	}

	f := cmd.Flags()
	f.String("model", "", "Base model name")
	f.String("output-dir", "", "Directory for datasets, manifest and model")
	f.Int("epochs", 0, "Number of training epochs")
	f.Int("max-samples", 0, "Use at most this many pairs (0 = all)")
	f.String("trainer", "", "Trainer command; {config} and {output_dir} are expanded")
	f.Bool("prepare-only", false, "Write datasets and manifest without running the trainer")

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if err := cc.Cfg.Train.Validate(); err != nil {
		return cc.Fail(fmt.Errorf("invalid configuration: %w", err))
	}
	prepareOnly, _ := cmd.Flags().GetBool("prepare-only")

	d := train.NewDriver(train.Options{
		Store:       cc.Cfg.Store,
		Train:       cc.Cfg.Train,
		PrepareOnly: prepareOnly,
	}, cc.Logger)

	res, err := d.Run(cmd.Context())
	if err != nil {
		return cc.Fail(err)
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.TrainOutput{
			Pairs:         res.Pairs,
			TrainRows:     res.TrainRows,
			EvalRows:      res.EvalRows,
			OutputDir:     res.OutputDir,
			TrainDataset:  res.TrainPath,
			EvalDataset:   res.EvalPath,
			Manifest:      res.ManifestPath,
			Trainer:       res.TrainerPath,
			TokenizerFile: res.TokenizerPath,
			Command:       res.Command,
			Trained:       res.Trained,
		})
	case output.ModeMarkdown:
		title := "Training Complete"
		if !res.Trained {
			title = "Training Data Prepared"
		}
		r.Println(output.FormatHeader(1, title))
		r.Println("")
		r.Println(output.FormatKeyValue("Pairs", res.Pairs))
		r.Println(output.FormatKeyValue("Train", res.TrainRows))
		r.Println(output.FormatKeyValue("Eval", res.EvalRows))
		r.Println(output.FormatKeyValue("Manifest", res.ManifestPath))
		r.Println(output.FormatKeyValue("Output", res.OutputDir))
		if !res.Trained {
			r.Println(output.FormatKeyValue("Trainer command", "`"+trainerCommandLine(res)+"`"))
		}
	default:
		r.Header(1, "Training")
		r.KeyValue("Pairs", res.Pairs)
		r.KeyValue("Train / Eval", fmt.Sprintf("%d / %d", res.TrainRows, res.EvalRows))
		r.KeyValue("Manifest", res.ManifestPath)
		r.Println("")
		if res.Trained {
			r.Success("Model saved to " + res.OutputDir)
		} else {
			r.Success("Datasets written to " + res.OutputDir)
			r.Muted("Run the trainer with: " + trainerCommandLine(res))
		}
	}
	return nil
}

func trainerCommandLine(res *train.Result) string {
	return strings.Join(append(append([]string{}, res.Env...), res.Command...), " ")
}
