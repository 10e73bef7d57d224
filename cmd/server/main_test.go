package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"Info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"ERROR": slog.LevelError,
	}

	for raw, want := range cases {
		level, err := parseLogLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, level, raw)
	}
}

func TestParseLogLevelRejectsUnknown(t *testing.T) {
	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}
