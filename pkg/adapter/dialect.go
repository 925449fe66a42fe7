package adapter

import (
	"fmt"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect describes the SQL differences between store backends.
type Dialect struct {
	// Name is the registry name of the backend (sqlite, mssql, ...).
	Name string

	// Embedded is true for file-based stores that need no server.
	Embedded bool

	// Placeholder is the bind parameter style used by the driver.
	Placeholder sq.PlaceholderFormat

	// OpenQuote and CloseQuote delimit identifiers ("[" "]" or `"` `"`).
	OpenQuote  string
	CloseQuote string

	// MaxBatchRows caps the rows in a single INSERT so the statement stays
	// within the driver's bind parameter limit. Zero means no cap.
	MaxBatchRows int

	// TopLimit selects "SELECT TOP n" instead of a trailing LIMIT clause.
	TopLimit bool
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName checks that a table name is a plain identifier.
// Table names are interpolated into DDL, so anything else is rejected.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name is required")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q: use letters, digits and underscores only", name)
	}
	return nil
}

// QuoteIdent quotes an identifier using the dialect's delimiters.
func (d *Dialect) QuoteIdent(name string) string {
	escaped := strings.ReplaceAll(name, d.CloseQuote, d.CloseQuote+d.CloseQuote)
	return d.OpenQuote + escaped + d.CloseQuote
}

// FormatPlaceholder returns the bind parameter for a 1-based index.
func (d *Dialect) FormatPlaceholder(index int) string {
	out, err := d.Placeholder.ReplacePlaceholders("?")
	if err != nil || out == "?" {
		return "?"
	}
	// Numbered formats render the first placeholder; re-render for index.
	return strings.TrimSuffix(out, "1") + fmt.Sprint(index)
}
