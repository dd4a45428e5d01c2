package clilog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	_, err := ParseLevel("verbose")
	require.NotNil(t, err)
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	_, err := ParseFormat("xml")
	require.NotNil(t, err)
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, "info", "json")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hello")

	assert.True(t, bytes.Contains(buf.Bytes(), []byte(`"msg":"hello"`)))
}

func TestNewHandlerLogfmt(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, "info", "logfmt")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hello")

	assert.True(t, bytes.Contains(buf.Bytes(), []byte(`msg=hello`)))
}
