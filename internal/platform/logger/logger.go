// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide structured logger.
//
// Output is JSON on stdout. When a log file is configured the same records are
// also written to a size-rotated file managed by lumberjack.
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the logger sinks and level.
type Options struct {
	App   string
	Debug bool

	// File enables the rotating file sink when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New returns the configured logger and a close function that flushes the
// rotating file, if any. The close function is never nil.
func New(opts Options) (*slog.Logger, func() error) {
	var writer io.Writer = os.Stdout
	closer := func() error { return nil }

	if opts.File != "" {
		rotation := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		writer = io.MultiWriter(os.Stdout, rotation)
		closer = rotation.Close
	}

	return NewWithWriter(writer, opts), closer
}

// NewWithWriter builds the JSON logger over an arbitrary writer.
func NewWithWriter(writer io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	if opts.App != "" {
		log = log.With(slog.String("app", opts.App))
	}
	return log
}
