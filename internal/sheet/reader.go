package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapmt/pkg/core"
	"github.com/xuri/excelize/v2"
)

// ErrFileNotFound is returned when the spreadsheet path does not exist.
var ErrFileNotFound = errors.New("spreadsheet file not found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is the raw content of one sheet. The first row of the file becomes
// Headers; Rows holds the remaining rows as read.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// Read loads a sheet from an .xlsx/.xlsm workbook or a .csv file.
//
// The selector picks the worksheet: an all-digit value is a zero-based
// index, anything else a sheet name. CSV files ignore it.
func Read(path, selector string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var (
		t   *Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = readCSV(path)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		t, err = readWorkbook(path, selector)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format %q (use .xlsx or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if len(t.Headers) == 0 {
		return nil, ErrEmptySheet
	}
	t.padHeaders()
	return t, nil
}

func readWorkbook(path, selector string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	name, err := resolveSheet(f.GetSheetList(), selector)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return newTable(name, rows), nil
}

// resolveSheet maps a selector to a sheet name.
func resolveSheet(sheets []string, selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = "0"
	}
	if idx, err := strconv.Atoi(selector); err == nil && isDigits(selector) {
		if idx >= len(sheets) {
			return "", fmt.Errorf("sheet index %d out of range, workbook has %d sheet(s): %s",
				idx, len(sheets), strings.Join(sheets, ", "))
		}
		return sheets[idx], nil
	}
	for _, s := range sheets {
		if s == selector {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found, available: %s", selector, strings.Join(sheets, ", "))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func readCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
	return newTable(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), rows), nil
}

func newTable(name string, rows [][]string) *Table {
	t := &Table{Sheet: name}
	if len(rows) == 0 {
		return t
	}
	t.Headers = rows[0]
	t.Rows = rows[1:]
	return t
}

// padHeaders widens the header to the widest row so every cell has a column.
func (t *Table) padHeaders() {
	width := len(t.Headers)
	for _, r := range t.Rows {
		width = max(width, len(r))
	}
	for i := len(t.Headers); i < width; i++ {
		t.Headers = append(t.Headers, fmt.Sprintf("Unnamed: %d", i))
	}
}

// Extract is the result of reading a sheet into pairs.
type Extract struct {
	Sheet   string
	Columns Columns
	// Rows is the number of data rows in the sheet, blank ones included.
	Rows  int
	Pairs []core.TranslationPair
}

// Load reads a sheet, infers its columns and normalizes its rows.
func Load(path, selector string, opts NormalizeOptions) (*Extract, error) {
	t, err := Read(path, selector)
	if err != nil {
		return nil, err
	}

	cols, err := InferColumns(t.Headers)
	if err != nil {
		return nil, err
	}

	pairs, err := Normalize(t.Rows, cols, opts)
	if err != nil {
		return nil, err
	}

	return &Extract{
		Sheet:   t.Sheet,
		Columns: cols,
		Rows:    len(t.Rows),
		Pairs:   pairs,
	}, nil
}
