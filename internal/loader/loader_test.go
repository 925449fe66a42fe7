package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapmt/internal/config"
	"github.com/leapstack-labs/leapmt/internal/sheet"
	"github.com/leapstack-labs/leapmt/internal/testutil"
	"github.com/leapstack-labs/leapmt/pkg/adapter"
	"github.com/leapstack-labs/leapmt/pkg/adapters/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapmt/pkg/adapters/postgres"
)

const fixture = "English,Marathi,Notes\n" +
	"Hello,नमस्कार,greeting\n" +
	",,\n" +
	"skipped,  ,\n" +
	"Thank you,धन्यवाद,\n" +
	"Water,पाणी,noun\n"

func writeCSV(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "pairs.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func sqliteOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		Input: config.InputConfig{Path: writeCSV(t, dir, fixture), Sheet: "0"},
		Store: config.StoreConfig{
			Backend:   config.BackendSQLite,
			Path:      filepath.Join(dir, "pairs.db"),
			Table:     config.DefaultTable,
			BatchSize: 2,
		},
	}
}

func readBack(t *testing.T, store config.StoreConfig) []string {
	t.Helper()
	ctx := context.Background()
	a := sqlite.New(nil)
	require.NoError(t, a.Connect(ctx, store.AdapterConfig()))
	defer func() { _ = a.Close() }()

	pairs, err := a.ReadPairs(ctx, store.Table, 0)
	require.NoError(t, err)
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.MarathiText + "=" + p.EnglishText
	}
	return out
}

func TestLoader_Run(t *testing.T) {
	opts := sqliteOptions(t)
	var calls [][2]int
	opts.Progress = func(inserted, total int) { calls = append(calls, [2]int{inserted, total}) }
	var read *sheet.Extract
	opts.OnRead = func(ex *sheet.Extract) { read = ex }

	res, err := New(opts, testutil.NewTestLogger(t)).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, config.BackendSQLite, res.Backend)
	assert.Equal(t, config.DefaultTable, res.Table)
	assert.Equal(t, "Marathi", res.Columns.SourceName)
	assert.Equal(t, "English", res.Columns.TargetName)
	assert.Equal(t, 3, res.Read)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, int64(3), res.Total)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, [][2]int{{2, 3}, {3, 3}}, calls)
	require.NotNil(t, read)
	assert.Len(t, read.Pairs, 3)

	assert.Equal(t, []string{"नमस्कार=Hello", "धन्यवाद=Thank you", "पाणी=Water"}, readBack(t, opts.Store))
}

func TestLoader_RunAppends(t *testing.T) {
	opts := sqliteOptions(t)
	l := New(opts, nil)

	_, err := l.Run(context.Background())
	require.NoError(t, err)
	res, err := l.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, int64(6), res.Total)
}

func TestLoader_RunIDsDiffer(t *testing.T) {
	opts := sqliteOptions(t)
	l := New(opts, nil)

	a, err := l.Run(context.Background())
	require.NoError(t, err)
	b, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestLoader_InputErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, opts *Options)
		want  error
	}{
		{
			name: "missing file",
			setup: func(t *testing.T, opts *Options) {
				opts.Input.Path = filepath.Join(t.TempDir(), "missing.xlsx")
			},
			want: sheet.ErrFileNotFound,
		},
		{
			name: "only blank rows",
			setup: func(t *testing.T, opts *Options) {
				opts.Input.Path = writeCSV(t, t.TempDir(), "Marathi,English\n,\n  ,  \n")
			},
			want: sheet.ErrEmptySheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := sqliteOptions(t)
			tt.setup(t, &opts)

			_, err := New(opts, nil).Run(context.Background())
			require.ErrorIs(t, err, tt.want)
			assert.NoFileExists(t, opts.Store.Path)
		})
	}
}

func TestLoader_NullToken(t *testing.T) {
	opts := sqliteOptions(t)
	opts.Input.Path = writeCSV(t, t.TempDir(), "Marathi,English\nnan,x\nपाणी,Water\n")
	opts.Input.NullToken = "nan"

	res, err := New(opts, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
}

func unreachablePostgres(opts Options) Options {
	opts.Store.Backend = config.BackendPostgres
	opts.Store.Path = ""
	opts.Store.Host = "127.0.0.1"
	opts.Store.Port = 1
	opts.Store.Database = "marathi_english"
	return opts
}

func TestLoader_ConnectFailure(t *testing.T) {
	opts := unreachablePostgres(sqliteOptions(t))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := New(opts, nil).Run(ctx)
	require.Error(t, err)

	var connErr *adapter.ConnectError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, config.BackendPostgres, connErr.Backend)
	assert.Contains(t, connErr.Hint(), "USE_SQLITE=1")
}

func TestLoader_FallbackLocal(t *testing.T) {
	opts := unreachablePostgres(sqliteOptions(t))
	opts.Store.FallbackLocal = true
	opts.BaseDir = t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := New(opts, testutil.NewTestLogger(t)).Run(ctx)
	require.NoError(t, err)

	assert.True(t, res.FallbackUsed)
	assert.Equal(t, config.BackendSQLite, res.Backend)
	assert.Equal(t, int64(3), res.Total)
	assert.FileExists(t, filepath.Join(opts.BaseDir, config.DefaultSQLitePath))
}

func TestLoader_FallbackLocalUsesConfiguredPath(t *testing.T) {
	opts := unreachablePostgres(sqliteOptions(t))
	opts.Store.FallbackLocal = true
	opts.BaseDir = t.TempDir()
	opts.Store.Path = "custom_pairs.db"
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := New(opts, nil).Run(ctx)
	require.NoError(t, err)

	want := filepath.Join(opts.BaseDir, "custom_pairs.db")
	assert.True(t, res.FallbackUsed)
	assert.FileExists(t, want)
	assert.NoFileExists(t, filepath.Join(opts.BaseDir, config.DefaultSQLitePath))
	assert.Len(t, readBack(t, config.StoreConfig{Path: want, Table: opts.Store.Table}), 3)
}
