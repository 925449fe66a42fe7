package sheet

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Columns identifies the source (Marathi) and target (English) columns of a
// sheet by zero-based position.
type Columns struct {
	Source     int
	Target     int
	SourceName string
	TargetName string
}

// Column kinds.
const (
	KindMarathi = "marathi"
	KindEnglish = "english"
)

type columnRule struct {
	aliases    []string
	substrings []string
	fallback   int
}

var columnRules = map[string]columnRule{
	KindMarathi: {
		aliases:    []string{"marathi", "Marathi", "marathi_text", "source", "मराठी"},
		substrings: []string{"marathi", "source", "मराठी"},
		fallback:   0,
	},
	KindEnglish: {
		aliases:    []string{"english", "English", "english_text", "target", "translation"},
		substrings: []string{"english", "target", "translation"},
		fallback:   1,
	},
}

var folder = cases.Fold()

// ColumnError reports that a column kind could not be resolved.
type ColumnError struct {
	Kind    string
	Headers []string
}

func (e *ColumnError) Error() string {
	kind := "Marathi"
	if e.Kind == KindEnglish {
		kind = "English"
	}
	return fmt.Sprintf("could not find %s column. Columns: %s", kind, strings.Join(e.Headers, ", "))
}

// InferColumns picks the source and target columns from a header row.
//
// Headers are scanned in order and the first one that is an exact alias, or
// contains a kind's substring ignoring case, wins. Without a match the source
// falls back to the first column and the target to the second.
func InferColumns(headers []string) (Columns, error) {
	src, err := findColumn(headers, KindMarathi)
	if err != nil {
		return Columns{}, err
	}
	tgt, err := findColumn(headers, KindEnglish)
	if err != nil {
		return Columns{}, err
	}
	return Columns{
		Source:     src,
		Target:     tgt,
		SourceName: headers[src],
		TargetName: headers[tgt],
	}, nil
}

func findColumn(headers []string, kind string) (int, error) {
	rule := columnRules[kind]
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if slices.Contains(rule.aliases, name) {
			return i, nil
		}
		folded := folder.String(name)
		for _, sub := range rule.substrings {
			if strings.Contains(folded, folder.String(sub)) {
				return i, nil
			}
		}
	}
	if rule.fallback < len(headers) {
		return rule.fallback, nil
	}
	return -1, &ColumnError{Kind: kind, Headers: headers}
}
