package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapmt/internal/testutil"
	"github.com/leapstack-labs/leapmt/pkg/adapter"
	"github.com/leapstack-labs/leapmt/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, cfg adapter.Config) *Adapter {
	t.Helper()
	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "in-memory database", path: ":memory:"},
		{name: "file database", path: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "file" {
				path = filepath.Join(t.TempDir(), "data", "pairs.duckdb")
			}
			adp := connect(t, adapter.Config{Backend: Name, Path: path})
			assert.True(t, adp.IsConnected())
		})
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, adapter.Config{Backend: Name, Path: ":memory:"})

	require.NoError(t, adp.EnsureTable(ctx, "pairs"))
	require.NoError(t, adp.EnsureTable(ctx, "pairs"))

	in := []core.TranslationPair{
		{MarathiText: "नमस्कार", EnglishText: "Hello"},
		{MarathiText: "धन्यवाद", EnglishText: "Thank you"},
		{MarathiText: "पाणी", EnglishText: "Water"},
	}
	n, err := adp.InsertBatch(ctx, "pairs", in, adapter.InsertOptions{BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := adp.CountRows(ctx, "pairs")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	out, err := adp.ReadPairs(ctx, "pairs", 0)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestConnect_WithSettings(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, adapter.Config{
		Path: ":memory:",
		Params: map[string]any{
			"settings": map[string]any{"threads": "2"},
		},
	})

	var threads string
	require.NoError(t, adp.DB.QueryRowContext(ctx, "SELECT current_setting('threads')").Scan(&threads))
	assert.Equal(t, "2", threads)
}

func TestConnect_WithNilParams(t *testing.T) {
	adp := connect(t, adapter.Config{Path: ":memory:", Params: nil})
	require.NoError(t, adp.Exec(context.Background(), "SELECT 1"))
}

func TestSetupStatements(t *testing.T) {
	stmts, err := Params{
		Extensions: []string{"json"},
		Settings:   map[string]string{"threads": "2", "memory_limit": "1GB"},
	}.setupStatements()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"INSTALL json",
		"LOAD json",
		"SET memory_limit = '1GB'",
		"SET threads = '2'",
	}, stmts)

	_, err = Params{Settings: map[string]string{"bad name": "x"}}.setupStatements()
	require.Error(t, err)

	_, err = Params{Extensions: []string{"json; DROP"}}.setupStatements()
	require.Error(t, err)
}

func TestAdapter_Close(t *testing.T) {
	assert.NoError(t, New(nil).Close())
}
