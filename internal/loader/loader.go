// Package loader moves translation pairs from a spreadsheet into a store.
//
// A run reads the sheet, connects to the configured backend (optionally
// falling back to the embedded SQLite file when a server is unreachable),
// creates the pairs table if needed and inserts the pairs in committed
// chunks.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapmt/internal/config"
	"github.com/leapstack-labs/leapmt/internal/sheet"
	"github.com/leapstack-labs/leapmt/pkg/adapter"

	// fallback target when a networked store is unreachable.
	_ "github.com/leapstack-labs/leapmt/pkg/adapters/sqlite"
)

// Options configures a Loader.
type Options struct {
	Input config.InputConfig
	Store config.StoreConfig

	// BaseDir anchors the fallback SQLite path. Empty means the working directory.
	BaseDir string

	// Progress, when set, receives chunk progress instead of the log.
	Progress func(inserted, total int)

	// OnRead is called once the sheet has been parsed, before connecting.
	OnRead func(ex *sheet.Extract)
}

// Result describes a finished load.
type Result struct {
	RunID        string
	Backend      string
	Table        string
	Sheet        string
	Columns      sheet.Columns
	Rows         int
	Read         int
	Inserted     int
	Total        int64
	FallbackUsed bool
}

// Loader runs the spreadsheet-to-store pipeline.
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// New creates a loader. If logger is nil, a discard logger is used.
func New(opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{opts: opts, logger: logger}
}

// Run executes the load. A partial insert returns both the result so far
// and the error; committed chunks stay in the store.
func (l *Loader) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := l.logger.With(slog.String("run_id", runID))

	logger.Info("reading spreadsheet",
		slog.String("path", l.opts.Input.Path),
		slog.String("sheet", l.opts.Input.Sheet))
	ex, err := sheet.Load(l.opts.Input.Path, l.opts.Input.Sheet, sheet.NormalizeOptions{NullToken: l.opts.Input.NullToken})
	if err != nil {
		return nil, err
	}
	logger.Info("spreadsheet read",
		slog.String("sheet", ex.Sheet),
		slog.String("source_column", ex.Columns.SourceName),
		slog.String("target_column", ex.Columns.TargetName),
		slog.Int("rows", ex.Rows),
		slog.Int("pairs", len(ex.Pairs)))
	if l.opts.OnRead != nil {
		l.opts.OnRead(ex)
	}

	store, storeCfg, fallback, err := l.connect(ctx, logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	res := &Result{
		RunID:        runID,
		Backend:      storeCfg.Backend,
		Table:        storeCfg.Table,
		Sheet:        ex.Sheet,
		Columns:      ex.Columns,
		Rows:         ex.Rows,
		Read:         len(ex.Pairs),
		FallbackUsed: fallback,
	}

	if err := store.EnsureTable(ctx, storeCfg.Table); err != nil {
		return nil, err
	}

	progress := l.opts.Progress
	if progress == nil {
		progress = func(inserted, total int) {
			logger.Info("inserted", slog.Int("rows", inserted), slog.Int("total", total))
		}
	}

	n, err := store.InsertBatch(ctx, storeCfg.Table, ex.Pairs, adapter.InsertOptions{
		BatchSize: storeCfg.BatchSize,
		Progress:  progress,
	})
	res.Inserted = n
	if err != nil {
		return res, err
	}

	total, err := store.CountRows(ctx, storeCfg.Table)
	if err != nil {
		return res, err
	}
	res.Total = total

	logger.Info("load complete",
		slog.String("backend", res.Backend),
		slog.String("table", res.Table),
		slog.Int("inserted", res.Inserted),
		slog.Int64("total", res.Total))
	return res, nil
}

// connect opens the configured store. When a networked store cannot be
// reached and fallback is enabled, it opens the local SQLite file instead.
func (l *Loader) connect(ctx context.Context, logger *slog.Logger) (adapter.Adapter, config.StoreConfig, bool, error) {
	cfg := l.opts.Store
	store, err := open(ctx, cfg, logger)
	if err == nil {
		return store, cfg, false, nil
	}

	var connErr *adapter.ConnectError
	if !errors.As(err, &connErr) || connErr.Embedded || !cfg.FallbackLocal {
		return nil, cfg, false, err
	}

	fb := cfg.LocalFallback()
	if !filepath.IsAbs(fb.Path) && l.opts.BaseDir != "" {
		fb.Path = filepath.Join(l.opts.BaseDir, fb.Path)
	}
	logger.Warn("store unreachable, falling back to local sqlite",
		slog.String("backend", cfg.Backend),
		slog.String("error", connErr.Err.Error()),
		slog.String("path", fb.Path))

	store, fbErr := open(ctx, fb, logger)
	if fbErr != nil {
		return nil, cfg, false, fmt.Errorf("local fallback failed after %w: %w", err, fbErr)
	}
	return store, fb, true, nil
}

func open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (adapter.Adapter, error) {
	ac := cfg.AdapterConfig()
	store, err := adapter.NewAdapter(ac, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("connecting to store", slog.String("backend", cfg.Backend))
	if err := store.Connect(ctx, ac); err != nil {
		return nil, err
	}
	return store, nil
}
