package train

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapmt/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteManifest_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile)
	m := &Manifest{
		ModelName: "Helsinki-NLP/opus-mt-mr-en",
		Dataset:   DatasetRefs{Train: "dataset/train.parquet"},
		Tokenization: Tokenization{
			SourceColumn:    SourceColumn,
			TargetColumn:    TargetColumn,
			MaxSourceLength: 64,
			MaxTargetLength: 32,
			Padding:         PaddingMaxLength,
			LabelPadTokenID: IgnoreIndex,
		},
		Args: TrainingArgs{
			OutputDir:      "out",
			NumTrainEpochs: 3,
			LearningRate:   2e-5,
			EvalStrategy:   "no",
			ReportTo:       "none",
			Seed:           42,
		},
	}

	require.NoError(t, WriteManifest(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "per_device_train_batch_size:")
	assert.Contains(t, string(data), "label_pad_token_id: -100")
	assert.NotContains(t, string(data), "eval:")
	assert.NotContains(t, string(data), "eval_steps:")

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

// The bundled trainer's tests read the same fixture, so both sides agree on
// the manifest layout.
func TestManifest_MatchesTrainerFixture(t *testing.T) {
	want, err := ReadManifest(filepath.Join("testdata", ManifestFile))
	require.NoError(t, err)

	d := NewDriver(Options{Train: config.TrainConfig{
		ModelName:       config.DefaultModelName,
		OutputDir:       "/out",
		Epochs:          config.DefaultEpochs,
		BatchSize:       config.DefaultTrainBatchSize,
		MaxSourceLength: config.DefaultMaxSourceLength,
		MaxTargetLength: config.DefaultMaxTargetLength,
		LearningRate:    config.DefaultLearningRate,
		WarmupRatio:     config.DefaultWarmupRatio,
		SaveSteps:       config.DefaultSaveSteps,
		Seed:            42,
	}}, nil)

	got := d.manifest(&Result{
		OutputDir: "/out",
		TrainPath: "/out/dataset/train.parquet",
		EvalPath:  "/out/dataset/eval.parquet",
	})
	assert.Equal(t, want, got)
}

func TestReadManifest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile)
	require.NoError(t, os.WriteFile(path, []byte("model_name: [unclosed"), 0o600))

	_, err := ReadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid manifest")
}
