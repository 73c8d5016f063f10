// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging configures structured logging for Aleutian services.
//
// It is a thin layer over the standard library slog package: services
// call Setup once at startup and use slog directly everywhere else.
// JSON output goes to stdout so container log collectors pick it up
// without extra plumbing.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity. Levels are ordered by severity:
// Debug < Info < Warn < Error. Setting a minimum level filters out
// everything below it.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a level name to a Level, case-insensitively.
// Unrecognized names (including "") fall back to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures logger construction. The zero value produces an
// Info-level JSON logger on stdout with no service attribute.
type Config struct {
	// Level sets the minimum log level. Default: LevelInfo.
	Level Level

	// Service identifies the component generating logs. When set it is
	// attached to every entry as the "service" attribute.
	Service string

	// Output overrides the log destination. Default: os.Stdout.
	Output io.Writer
}

// New builds a JSON slog.Logger from the config.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.Level.toSlogLevel(),
	})
	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// Setup builds a logger for the named service, reading the minimum
// level from LOG_LEVEL, and installs it as the slog default.
func Setup(service string) *slog.Logger {
	logger := New(Config{
		Level:   ParseLevel(os.Getenv("LOG_LEVEL")),
		Service: service,
	})
	slog.SetDefault(logger)
	return logger
}
