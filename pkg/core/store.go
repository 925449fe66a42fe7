package core

// StoreConfig holds configuration for connecting to a pairs store.
type StoreConfig struct {
	Backend  string
	Path     string // file-based stores (sqlite, duckdb)
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
	Params   map[string]any
}

