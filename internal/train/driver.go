// Package train prepares stored translation pairs for fine-tuning and hands
// them to an external seq2seq trainer.
//
// The driver does no model math itself: it reads pairs from the embedded
// store, splits them, writes parquet datasets plus a training manifest, and
// then runs the configured trainer command. Tokenization happens in the
// trainer with the pretrained model's own tokenizer, so token ids always
// index the model's vocabulary. The default trainer is the leapmt_trainer
// Python package bundled into the binary and installed next to the datasets.
package train

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapmt/internal/config"
	"github.com/leapstack-labs/leapmt/pkg/adapter"
	"github.com/leapstack-labs/leapmt/pkg/core"

	// the driver reads from the embedded store.
	_ "github.com/leapstack-labs/leapmt/pkg/adapters/sqlite"
)

// Files written under the output directory.
const (
	DatasetDir        = "dataset"
	TrainFile         = "train.parquet"
	EvalFile          = "eval.parquet"
	ManifestFile      = "training_args.yaml"
	TokenizerFile     = "tokenizer_config.json" // written by the trainer
	saveTotalLimit    = 2
	loggingSteps      = 500
	evalStrategySteps = "steps"
	evalStrategyNone  = "no"
)

// Options configures a Driver.
type Options struct {
	Store config.StoreConfig
	Train config.TrainConfig

	// PrepareOnly stops after the datasets and manifest are written.
	PrepareOnly bool

	// Runner overrides the child-process trainer.
	Runner Runner
}

// Result describes a finished run.
type Result struct {
	Pairs         int
	TrainRows     int
	EvalRows      int
	OutputDir     string
	TrainPath     string
	EvalPath      string
	ManifestPath  string
	TrainerPath   string
	Command       []string
	Env           []string
	Trained       bool

	// TokenizerPath is the tokenizer config saved with the model. Set only
	// once the trainer has finished.
	TokenizerPath string
}

// Driver runs the training pipeline.
type Driver struct {
	opts   Options
	logger *slog.Logger
}

// NewDriver creates a driver. If logger is nil, a discard logger is used.
func NewDriver(opts Options, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{opts: opts, logger: logger}
}

// CheckPreconditions verifies the store can be read before anything is
// written. The store must be the embedded SQLite file and it must exist.
func (d *Driver) CheckPreconditions() error {
	backend := strings.ToLower(d.opts.Store.Backend)
	if backend != config.BackendSQLite {
		return fmt.Errorf("%w: store.backend is %q\nHint: load the data with USE_SQLITE=1 leapmt load, then train with USE_SQLITE=1",
			ErrUnsupportedBackend, d.opts.Store.Backend)
	}

	path := d.opts.Store.Path
	if path == "" {
		path = config.DefaultSQLitePath
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s\nHint: run 'USE_SQLITE=1 leapmt load' first", ErrDatabaseNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrDatabaseNotFound, path)
	}
	return nil
}

// Run executes the pipeline end to end.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if err := d.CheckPreconditions(); err != nil {
		return nil, err
	}
	tc := d.opts.Train

	d.logger.Info("loading pairs", slog.String("path", d.opts.Store.Path), slog.String("table", d.opts.Store.Table))
	pairs, err := d.readPairs(ctx)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: table %s is empty\nHint: run 'USE_SQLITE=1 leapmt load' first", ErrNoRows, d.opts.Store.Table)
	}
	d.logger.Info("pairs loaded", slog.Int("count", len(pairs)))

	trainPairs, evalPairs := Split(pairs, tc.Split, tc.Seed)
	d.logger.Info("dataset split",
		slog.Int("train", len(trainPairs)),
		slog.Int("eval", len(evalPairs)),
		slog.Int64("seed", tc.Seed))

	res, err := d.writeArtifacts(trainPairs, evalPairs)
	if err != nil {
		return nil, err
	}
	res.Pairs = len(pairs)

	res.Command = BuildCommand(tc.Command, res.ManifestPath, res.OutputDir)
	res.Env = []string{pythonPath(res.TrainerPath)}
	if d.opts.PrepareOnly {
		d.logger.Info("prepare-only set, skipping trainer", slog.String("manifest", res.ManifestPath))
		return res, nil
	}

	runner := d.opts.Runner
	if runner == nil {
		runner = &ExecRunner{Logger: d.logger}
	}
	inv := Invocation{Args: res.Command, Dir: res.OutputDir, Env: res.Env}
	if err := runner.Run(ctx, inv); err != nil {
		return res, err
	}
	res.Trained = true
	if tp := filepath.Join(res.OutputDir, TokenizerFile); fileExists(tp) {
		res.TokenizerPath = tp
	}
	d.logger.Info("model saved", slog.String("output_dir", res.OutputDir))
	return res, nil
}

func (d *Driver) readPairs(ctx context.Context) ([]core.TranslationPair, error) {
	store, err := adapter.NewAdapter(d.opts.Store.AdapterConfig(), d.logger)
	if err != nil {
		return nil, err
	}
	if err := store.Connect(ctx, d.opts.Store.AdapterConfig()); err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return store.ReadPairs(ctx, d.opts.Store.Table, d.opts.Train.MaxSamples)
}

func (d *Driver) writeArtifacts(trainPairs, evalPairs []core.TranslationPair) (*Result, error) {
	outDir, err := filepath.Abs(d.opts.Train.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	dataDir := filepath.Join(outDir, DatasetDir)
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dataDir, err)
	}

	res := &Result{
		TrainRows:    len(trainPairs),
		EvalRows:     len(evalPairs),
		OutputDir:    outDir,
		TrainPath:    filepath.Join(dataDir, TrainFile),
		ManifestPath: filepath.Join(outDir, ManifestFile),
	}

	if err := WriteDataset(res.TrainPath, trainPairs); err != nil {
		return nil, err
	}
	if len(evalPairs) > 0 {
		res.EvalPath = filepath.Join(dataDir, EvalFile)
		if err := WriteDataset(res.EvalPath, evalPairs); err != nil {
			return nil, err
		}
	} else {
		d.logger.Warn("eval split is empty, evaluation disabled")
	}
	d.logger.Info("datasets written", slog.String("dir", dataDir))

	if err := WriteManifest(res.ManifestPath, d.manifest(res)); err != nil {
		return nil, err
	}

	res.TrainerPath, err = InstallTrainer(outDir)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("trainer installed", slog.String("path", res.TrainerPath))
	return res, nil
}

func (d *Driver) manifest(res *Result) *Manifest {
	tc := d.opts.Train
	args := TrainingArgs{
		OutputDir:               res.OutputDir,
		NumTrainEpochs:          tc.Epochs,
		PerDeviceTrainBatchSize: tc.BatchSize,
		PerDeviceEvalBatchSize:  tc.EvalBatchSize(),
		LearningRate:            tc.LearningRate,
		WarmupRatio:             tc.WarmupRatio,
		SaveSteps:               tc.SaveSteps,
		SaveTotalLimit:          saveTotalLimit,
		EvalStrategy:            evalStrategyNone,
		LoggingSteps:            loggingSteps,
		PredictWithGenerate:     true,
		FP16:                    false,
		ReportTo:                "none",
		Seed:                    tc.Seed,
		GenerationMaxLength:     tc.MaxTargetLength,
	}
	if res.EvalPath != "" {
		args.EvalStrategy = evalStrategySteps
		args.EvalSteps = tc.SaveSteps
	}
	return &Manifest{
		ModelName: tc.ModelName,
		Dataset: DatasetRefs{
			Train: res.TrainPath,
			Eval:  res.EvalPath,
		},
		Tokenization: Tokenization{
			SourceColumn:    SourceColumn,
			TargetColumn:    TargetColumn,
			MaxSourceLength: tc.MaxSourceLength,
			MaxTargetLength: tc.MaxTargetLength,
			Padding:         PaddingMaxLength,
			LabelPadTokenID: IgnoreIndex,
		},
		Args: args,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
