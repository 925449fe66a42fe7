package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapmt/internal/cli/output"
	"github.com/leapstack-labs/leapmt/internal/cli/testutil"
	"github.com/leapstack-labs/leapmt/internal/train"
	"github.com/leapstack-labs/leapmt/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pipelineEnv = []string{
	"USE_SQLITE", "STORE_BACKEND", "EXCEL_PATH", "EXCEL_SHEET", "SQLITE_PATH",
	"TRANSLATION_TABLE", "INSERT_BATCH_SIZE", "MODEL_OUTPUT_DIR", "NULL_TOKEN",
	"MODEL_NAME", "TRAINER_COMMAND", "TRAIN_SPLIT", "MAX_SAMPLES",
}

// setupProject runs the test inside a fresh project holding pairs.xlsx.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	for _, name := range pipelineEnv {
		t.Setenv(name, "")
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

var sqliteArgs = []string{"--backend", "sqlite", "--db-path", "pairs.db"}

func TestLoadThenCount(t *testing.T) {
	dir := setupProject(t)

	stdout, _, err := execute(t, append([]string{"load", "--excel", "pairs.xlsx", "--sheet", "Pairs", "-o", "json"}, sqliteArgs...)...)
	require.NoError(t, err)

	var load output.LoadOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &load))
	assert.Equal(t, "sqlite", load.Backend)
	assert.Equal(t, "Pairs", load.Sheet)
	assert.Equal(t, "Marathi", load.SourceColumn)
	assert.Equal(t, "English", load.TargetColumn)
	assert.Equal(t, 3, load.Inserted)
	assert.Equal(t, int64(3), load.Total)
	assert.NotEmpty(t, load.RunID)
	assert.FileExists(t, filepath.Join(dir, "pairs.db"))

	stdout, _, err = execute(t, append([]string{"count", "-o", "json"}, sqliteArgs...)...)
	require.NoError(t, err)

	var count output.CountOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &count))
	assert.Equal(t, int64(3), count.Rows)
}

func TestLoad_UseSQLiteEnv(t *testing.T) {
	dir := setupProject(t)
	t.Setenv("USE_SQLITE", "1")
	t.Setenv("EXCEL_PATH", "pairs.xlsx")

	stdout, _, err := execute(t, "load", "-o", "markdown")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Load Complete")
	assert.Contains(t, stdout, "**Inserted:** 3")
	testutil.AssertNoANSI(t, stdout)
	assert.FileExists(t, filepath.Join(dir, "marathi_english.db"))
}

func TestLoad_MissingWorkbook(t *testing.T) {
	setupProject(t)

	stdout, _, err := execute(t, append([]string{"load", "--excel", "missing.xlsx", "-o", "json"}, sqliteArgs...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet file not found")

	var failure output.ErrorOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &failure))
	assert.Contains(t, failure.Error, "missing.xlsx")
}

func TestInspect(t *testing.T) {
	setupProject(t)

	stdout, _, err := execute(t, "inspect", "--excel", "pairs.xlsx", "--limit", "2", "-o", "markdown")
	require.NoError(t, err)

	assert.Contains(t, stdout, "**Marathi column:** Marathi")
	assert.Contains(t, stdout, "नमस्कार")
	assert.Contains(t, stdout, "धन्यवाद")
	assert.NotContains(t, stdout, "पाणी")
	testutil.AssertValidMarkdown(t, stdout)
}

func TestInspect_JSON(t *testing.T) {
	setupProject(t)

	stdout, _, err := execute(t, "inspect", "--excel", "pairs.xlsx", "-o", "json")
	require.NoError(t, err)

	var got output.InspectOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 3, got.Pairs)
	require.Len(t, got.Preview, 3)
	assert.Equal(t, output.PairInfo{Marathi: "पाणी", English: "Water"}, got.Preview[2])
}

func TestTrain_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "networked store", args: []string{"--backend", "mssql"}, want: train.ErrUnsupportedBackend},
		{name: "no database yet", args: sqliteArgs, want: train.ErrDatabaseNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupProject(t)

			_, _, err := execute(t, append([]string{"train", "--prepare-only", "-o", "json"}, tt.args...)...)
			require.ErrorIs(t, err, tt.want)
			assert.NoDirExists(t, filepath.Join(dir, "marathi_english_model"))
		})
	}
}

func TestLoadThenTrain_PrepareOnly(t *testing.T) {
	dir := setupProject(t)

	_, _, err := execute(t, append([]string{"load", "--excel", "pairs.xlsx"}, sqliteArgs...)...)
	require.NoError(t, err)

	stdout, _, err := execute(t, append([]string{"train", "--prepare-only", "--output-dir", "model", "-o", "json"}, sqliteArgs...)...)
	require.NoError(t, err)

	var got output.TrainOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	modelDir := filepath.Join(dir, "model")
	assert.Equal(t, 3, got.Pairs)
	assert.Equal(t, 2, got.TrainRows)
	assert.Equal(t, 1, got.EvalRows)
	assert.False(t, got.Trained)
	assert.Empty(t, got.TokenizerFile)
	assert.Equal(t, filepath.Join(modelDir, train.ManifestFile), got.Manifest)
	assert.Equal(t, filepath.Join(modelDir, train.TrainerDir), got.Trainer)
	assert.Equal(t, []string{"python3", "-m", "leapmt_trainer", "--config", got.Manifest}, got.Command)
	assert.FileExists(t, filepath.Join(got.Trainer, "leapmt_trainer", "train.py"))

	m, err := train.ReadManifest(got.Manifest)
	require.NoError(t, err)
	assert.Equal(t, "Helsinki-NLP/opus-mt-mr-en", m.ModelName)
	assert.Equal(t, train.IgnoreIndex, m.Tokenization.LabelPadTokenID)
}

func TestUnknownBackend(t *testing.T) {
	setupProject(t)

	_, _, err := execute(t, "count", "--backend", "oracle")
	require.Error(t, err)

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, "sqlite")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "leapmt v"+Version)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, &adapter.ConnectError{Backend: "mssql", Err: errors.New("connection refused")})
	assert.Contains(t, buf.String(), "Error: failed to connect to mssql: connection refused")
	assert.Contains(t, buf.String(), "USE_SQLITE=1")

	buf.Reset()
	PrintError(&buf, errors.New("plain"))
	assert.Equal(t, "Error: plain\n", buf.String())
}
