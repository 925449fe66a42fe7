// Package sqlite provides the embedded SQLite store backend for leapmt.
//
// This file registers the SQLite backend with the adapter registry.
// Import this package with a blank identifier to register the backend:
//
//	import _ "github.com/leapstack-labs/leapmt/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/leapmt/pkg/adapter"
)

func init() {
	adapter.Register(Name, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
