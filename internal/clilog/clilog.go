// Package clilog is a thin [log/slog] wrapper for the cmd/mcpdsl CLI. None
// of the core packages (lexer, parser, ast, validator, compiler,
// decompiler) log anything; they are pure functions returning diagnostics.
// Logging is an ambient concern of the CLI surface only.
//
// Grounded on MacroPower-x's log package: a handler chosen by format
// string, with AddSource enabled.
package clilog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format is a supported log output format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatLogfmt  Format = "logfmt"
	FormatDefault        = FormatLogfmt
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// NewHandler builds a [slog.Handler] writing to w from CLI flag strings.
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	fmtt, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return newHandler(w, lvl, fmtt), nil
}

func newHandler(w io.Writer, lvl slog.Level, f Format) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: true, Level: lvl}
	if f == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel parses a CLI-provided level string into a [slog.Level].
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

// ParseFormat parses a CLI-provided format string into a [Format].
func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(format)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatLogfmt, "":
		return FormatLogfmt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
