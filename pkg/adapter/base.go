package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/leapstack-labs/leapmt/pkg/core"
)

// MaxTextLength is the longest text, in characters, written to a text column.
// It keeps values within the NVARCHAR(4000) parameter limit of SQL Server.
const MaxTextLength = 4000

// BaseSQLAdapter provides common database/sql functionality for backends.
// Embed this struct in concrete backends to get standard Close, Exec,
// InsertBatch, CountRows and ReadPairs implementations; backends only supply
// Connect and EnsureTable.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.StoreConfig
	Logger *slog.Logger
	SQL    *Dialect
}

// NewBase returns a BaseSQLAdapter for the dialect.
// If logger is nil, a discard logger is used.
func NewBase(d *Dialect, logger *slog.Logger) BaseSQLAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return BaseSQLAdapter{Logger: logger, SQL: d}
}

// Dialect returns the SQL dialect of the backend.
func (b *BaseSQLAdapter) Dialect() *Dialect {
	return b.SQL
}

// Open opens a database/sql handle and pings it. A failed ping is reported
// as a *ConnectError so callers can tell connectivity problems apart.
func (b *BaseSQLAdapter) Open(ctx context.Context, driver, dsn string, cfg core.StoreConfig) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", b.SQL.Name, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return &ConnectError{Backend: b.SQL.Name, Embedded: b.SQL.Embedded, Err: err}
	}

	b.DB = db
	b.Cfg = cfg
	return nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.IsConnected() {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection", slog.String("backend", b.SQL.Name))
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string, args ...any) error {
	if !b.IsConnected() {
		return fmt.Errorf("database connection not established")
	}
	if _, err := b.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

func (b *BaseSQLAdapter) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(b.SQL.Placeholder)
}

// InsertBatch inserts pairs one chunk at a time. Each chunk is a single
// multi-row INSERT in its own transaction; a failure leaves earlier chunks
// committed.
func (b *BaseSQLAdapter) InsertBatch(ctx context.Context, table string, pairs []core.TranslationPair, opts InsertOptions) (int, error) {
	if !b.IsConnected() {
		return 0, fmt.Errorf("database connection not established")
	}
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}

	total := len(pairs)
	if total == 0 {
		return 0, nil
	}

	size := b.effectiveBatchSize(opts.BatchSize, total)
	ranges := Chunks(total, size)
	report := opts.Progress != nil && len(ranges) > 1

	inserted := 0
	for _, r := range ranges {
		chunk := pairs[r.Start:r.End]
		if err := b.insertChunk(ctx, table, chunk); err != nil {
			return inserted, fmt.Errorf("failed to insert rows %d-%d: %w", r.Start+1, r.End, err)
		}
		inserted += len(chunk)
		b.Logger.Debug("chunk committed",
			slog.String("table", table),
			slog.Int("inserted", inserted),
			slog.Int("total", total))
		if report {
			opts.Progress(inserted, total)
		}
	}

	return inserted, nil
}

// effectiveBatchSize resolves the requested size against the dialect cap.
func (b *BaseSQLAdapter) effectiveBatchSize(requested, total int) int {
	size := requested
	if size <= 0 {
		size = total
	}
	if limit := b.SQL.MaxBatchRows; limit > 0 && size > limit {
		b.Logger.Warn("batch size exceeds backend limit, clamping",
			slog.String("backend", b.SQL.Name),
			slog.Int("requested", size),
			slog.Int("limit", limit))
		size = limit
	}
	return size
}

func (b *BaseSQLAdapter) insertChunk(ctx context.Context, table string, chunk []core.TranslationPair) error {
	q := b.builder().
		Insert(b.SQL.QuoteIdent(table)).
		Columns(core.ColumnMarathi, core.ColumnEnglish)
	for _, p := range chunk {
		q = q.Values(PrepareText(p.MarathiText), PrepareText(p.EnglishText))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// CountRows returns the number of rows in the table.
func (b *BaseSQLAdapter) CountRows(ctx context.Context, table string) (int64, error) {
	if !b.IsConnected() {
		return 0, fmt.Errorf("database connection not established")
	}
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}

	sqlStr, args, err := b.builder().Select("COUNT(*)").From(b.SQL.QuoteIdent(table)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var n int64
	if err := b.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

// ReadPairs returns stored pairs ordered by id.
func (b *BaseSQLAdapter) ReadPairs(ctx context.Context, table string, limit int) ([]core.TranslationPair, error) {
	if !b.IsConnected() {
		return nil, fmt.Errorf("database connection not established")
	}
	if err := ValidateTableName(table); err != nil {
		return nil, err
	}

	q := b.builder().
		Select(core.ColumnMarathi, core.ColumnEnglish).
		From(b.SQL.QuoteIdent(table)).
		Where(sq.NotEq{core.ColumnMarathi: nil, core.ColumnEnglish: nil}).
		OrderBy(core.ColumnID)
	if limit > 0 {
		if b.SQL.TopLimit {
			q = q.Options(fmt.Sprintf("TOP %d", limit))
		} else {
			q = q.Limit(uint64(limit))
		}
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := b.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read pairs from %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var pairs []core.TranslationPair
	for rows.Next() {
		var p core.TranslationPair
		if err := rows.Scan(&p.MarathiText, &p.EnglishText); err != nil {
			return nil, fmt.Errorf("failed to scan pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pairs: %w", err)
	}

	return pairs, nil
}

// PrepareText doubles single quotes and truncates the result to
// MaxTextLength characters.
func PrepareText(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	if utf8.RuneCountInString(s) <= MaxTextLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxTextLength])
}

// Range is a half-open [Start, End) slice of record indexes.
type Range struct {
	Start int
	End   int
}

// Chunks partitions total records into consecutive ranges of at most size.
func Chunks(total, size int) []Range {
	if total <= 0 {
		return nil
	}
	if size <= 0 || size > total {
		size = total
	}
	out := make([]Range, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		out = append(out, Range{Start: start, End: end})
	}
	return out
}
