package core

// Canonical column names of the persisted pairs table.
const (
	ColumnMarathi   = "marathi_text"
	ColumnEnglish   = "english_text"
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
)

// TranslationPair is one Marathi sentence and its English translation.
// MarathiText is always trimmed and non-empty once produced by the sheet loader.
type TranslationPair struct {
	MarathiText string `json:"marathi_text"`
	EnglishText string `json:"english_text"`
}
