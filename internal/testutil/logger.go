package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output. The API and e2e
// tests hand it to the router so request logging stays quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
