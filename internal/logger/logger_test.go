package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"debug", logger.DebugLevel},
		{"info", logger.InfoLevel},
		{"", logger.InfoLevel},
		{"WARNING", logger.WarnLevel},
		{"warn", logger.WarnLevel},
		{"error", logger.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := logger.ParseLevel("loud")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestComponentLoggerFields(t *testing.T) {
	logger.SetLogLevel(logger.DebugLevel)
	t.Cleanup(func() { logger.SetLogLevel(logger.InfoLevel) })

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "panel").With("left")
	log.Warn().Str("profile", "cpu").Msg("tick failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "panel.left", entry["component"])
	assert.Equal(t, "cpu", entry["profile"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "tick failed", entry["message"])
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "")
	log.ErrorWithCode(errors.New().New(errors.ErrLinkUnavailable)).Msg("open failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "link_unavailable", entry["error_code"])
	_, hasComponent := entry["component"]
	assert.False(t, hasComponent)
}

func TestNopDiscards(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() {
		log.Error().Msg("dropped")
		log.With("x").Info().Msg("dropped")
	})
}
