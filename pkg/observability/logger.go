// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package observability provides logging and metrics.
package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Logger is the structured logger interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// logger adapts slog to Logger.
type logger struct {
	base *slog.Logger
}

// NewLogger creates a logger writing to w at the given level ("debug",
// "info", "warn", "error"; anything else means info) in text or json
// format.
func NewLogger(w io.Writer, level, format string) Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &logger{base: slog.New(h)}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return &logger{base: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *logger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields) }

func (l *logger) Info(msg string, fields ...Field) { l.log(slog.LevelInfo, msg, fields) }

func (l *logger) Warn(msg string, fields ...Field) { l.log(slog.LevelWarn, msg, fields) }

func (l *logger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields) }

func (l *logger) With(fields ...Field) Logger {
	return &logger{base: l.base.With(attrsOf(fields)...)}
}

func (l *logger) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !l.base.Enabled(ctx, level) {
		return
	}
	l.base.Log(ctx, level, msg, attrsOf(fields)...)
}

func attrsOf(fields []Field) []any {
	attrs := make([]any, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			attrs = append(attrs, slog.String(f.Key, err.Error()))
			continue
		}
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
