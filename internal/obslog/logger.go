// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package obslog provides structured logging for the tool-dispatch server.
//
// It is a thin wrapper over log/slog: JSON to stdout by default, text when
// Config.JSON is false (useful for local development). Every call site logs
// structured key-values — never string-interpolated fields — so log lines
// stay machine-parseable. Callers must never pass an upstream auth token as
// a field; this package does not redact automatically.
package obslog

import (
	"io"
	"log/slog"
	"os"
)

// Level mirrors slog's severity ordering: Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) toSlog() slog.Level {
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

// Config configures a Logger. The zero value is Debug level, text, to stdout.
type Config struct {
	Level   Level
	Service string
	JSON    bool
	Writer  io.Writer
}

// Logger wraps *slog.Logger with the service's fixed fields attached.
type Logger struct {
	*slog.Logger
}

// New builds a Logger per cfg.
func New(cfg Config) *Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.toSlog()}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return &Logger{Logger: logger}
}

// Default returns an Info-level, JSON-to-stdout Logger for the given service.
func Default(service string) *Logger {
	return New(Config{Level: LevelInfo, Service: service, JSON: true})
}
