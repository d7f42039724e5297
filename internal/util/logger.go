// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package util

import (
	"log/slog"
	"os"
)

var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// InitLogger initializes the global logger with the appropriate log level.
// Set UNIVAULT_DEBUG=1 to enable debug logging.
func InitLogger() {
	level := slog.LevelInfo

	if os.Getenv("UNIVAULT_DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop the timestamp for cleaner CLI output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})

	Logger = slog.New(handler)
}

// Debug logs a debug message (only shown when UNIVAULT_DEBUG is set)
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
