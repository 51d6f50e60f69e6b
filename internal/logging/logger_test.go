package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
	assert.True(t, ValidLevel("Warn"))
	assert.False(t, ValidLevel("loud"))
}

func TestInitJSON(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	log := WithDay(Component("session"), date)
	log.Debug().Str("op", "Reflow").Msg("commit")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "2025-01-15", entry["date"])
	assert.Equal(t, "Reflow", entry["op"])
	assert.Equal(t, "debug", entry["level"])
}

func TestInitFiltersBelowLevel(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	Logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	custom := zerolog.New(&buf)

	ctx := WithContext(context.Background(), custom)
	got := FromContext(ctx)
	got.Error().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	fallback := FromContext(context.Background())
	assert.Equal(t, Logger.GetLevel(), fallback.GetLevel())
}
