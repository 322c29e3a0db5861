// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the logger mutating commands report their
// effects on. On a terminal it writes text; when stderr is piped or
// redirected it writes JSON, matching the daemon's json log format.
func NewCommandLogger() *slog.Logger {
	return newLoggerFor(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

func newLoggerFor(w io.Writer, terminal bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if terminal {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
