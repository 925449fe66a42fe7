package sheet

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/leapmt/pkg/core"
)

// ErrEmptySheet is returned when a sheet has no data rows.
var ErrEmptySheet = errors.New("sheet is empty or has no data rows")

// NormalizeOptions controls Normalize.
type NormalizeOptions struct {
	// NullToken, when set, drops rows whose source text equals it. Exports
	// from dataframe tools often write "nan" for missing cells.
	NullToken string
}

// Normalize converts data rows into translation pairs.
//
// Entirely blank rows are skipped first; if none remain ErrEmptySheet is
// returned. Rows with an empty source (or one equal to the null token) are
// dropped. Row order is preserved and duplicates are kept.
func Normalize(rows [][]string, cols Columns, opts NormalizeOptions) ([]core.TranslationPair, error) {
	nonBlank := 0
	pairs := make([]core.TranslationPair, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		nonBlank++

		src := cell(row, cols.Source)
		if src == "" || (opts.NullToken != "" && src == opts.NullToken) {
			continue
		}
		pairs = append(pairs, core.TranslationPair{
			MarathiText: src,
			EnglishText: cell(row, cols.Target),
		})
	}
	if nonBlank == 0 {
		return nil, ErrEmptySheet
	}
	return pairs, nil
}

// cell returns the trimmed value at i; short rows read as empty.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
