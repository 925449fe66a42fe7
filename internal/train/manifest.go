package train

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IgnoreIndex marks label positions the loss must skip.
const IgnoreIndex = -100

// PaddingMaxLength pads every sequence to its configured maximum.
const PaddingMaxLength = "max_length"

// Manifest is the declarative training configuration handed to the
// external trainer. Field names under training_args follow
// Seq2SeqTrainingArguments; the bundled trainer passes them through as-is.
type Manifest struct {
	ModelName    string       `yaml:"model_name"`
	Dataset      DatasetRefs  `yaml:"dataset"`
	Tokenization Tokenization `yaml:"tokenization"`
	Args         TrainingArgs `yaml:"training_args"`
}

// DatasetRefs points at the parquet files.
type DatasetRefs struct {
	Train string `yaml:"train"`
	Eval  string `yaml:"eval,omitempty"`
}

// Tokenization tells the trainer how to encode the text columns with the
// model's own tokenizer.
type Tokenization struct {
	SourceColumn    string `yaml:"source_column"`
	TargetColumn    string `yaml:"target_column"`
	MaxSourceLength int    `yaml:"max_source_length"`
	MaxTargetLength int    `yaml:"max_target_length"`
	Padding         string `yaml:"padding"`
	LabelPadTokenID int    `yaml:"label_pad_token_id"`
}

// TrainingArgs mirrors the subset of Seq2SeqTrainingArguments the pipeline sets.
type TrainingArgs struct {
	OutputDir               string  `yaml:"output_dir"`
	NumTrainEpochs          int     `yaml:"num_train_epochs"`
	PerDeviceTrainBatchSize int     `yaml:"per_device_train_batch_size"`
	PerDeviceEvalBatchSize  int     `yaml:"per_device_eval_batch_size"`
	LearningRate            float64 `yaml:"learning_rate"`
	WarmupRatio             float64 `yaml:"warmup_ratio"`
	SaveSteps               int     `yaml:"save_steps"`
	SaveTotalLimit          int     `yaml:"save_total_limit"`
	EvalStrategy            string  `yaml:"eval_strategy"`
	EvalSteps               int     `yaml:"eval_steps,omitempty"`
	LoggingSteps            int     `yaml:"logging_steps"`
	PredictWithGenerate     bool    `yaml:"predict_with_generate"`
	FP16                    bool    `yaml:"fp16"`
	ReportTo                string  `yaml:"report_to"`
	Seed                    int64   `yaml:"seed"`
	GenerationMaxLength     int     `yaml:"generation_max_length"`
}

// WriteManifest writes m as YAML.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is under the output directory
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}
