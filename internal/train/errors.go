package train

import "errors"

// Precondition errors, raised before any file is written.
var (
	// ErrUnsupportedBackend is returned when the store is not the embedded
	// SQLite database the driver reads from.
	ErrUnsupportedBackend = errors.New("training reads from the sqlite store only")

	// ErrDatabaseNotFound is returned when the SQLite file does not exist.
	ErrDatabaseNotFound = errors.New("sqlite database not found")

	// ErrNoRows is returned when the pairs table is empty.
	ErrNoRows = errors.New("no translation pairs in store")
)
