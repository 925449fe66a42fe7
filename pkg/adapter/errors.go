package adapter

import "fmt"

// ConnectError is returned when a store cannot be reached.
type ConnectError struct {
	Backend  string
	Embedded bool
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Backend, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Hint returns a suggestion for recovering from the failure.
func (e *ConnectError) Hint() string {
	if e.Embedded {
		return "Hint: check that the database file path is writable"
	}
	return "Hint: the server is not reachable. Use the local SQLite store instead:\n  USE_SQLITE=1 leapmt load\nor set store.fallback_local: true in leapmt.yaml"
}

// UnknownAdapterError is returned when an unknown backend is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown store backend %q\nAvailable backends: %v\nHint: Check store.backend in leapmt.yaml or STORE_BACKEND", e.Type, e.Available)
}
