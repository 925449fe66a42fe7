package mssql

import (
	"log/slog"

	"github.com/leapstack-labs/leapmt/pkg/adapter"
)

func init() {
	adapter.Register(Name, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
