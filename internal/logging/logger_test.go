package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo, FormatJSON)
	logger.Error("compile failed", "error", errors.New("boom"), "rank", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "boom", rec["err"])
	assert.NotContains(t, rec, "error")
	assert.Equal(t, float64(1), rec["rank"])
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelWarn, FormatText)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		level, format string
		ok            bool
	}{
		{"", "", true},
		{"off", "json", true},
		{"debug", "", true},
		{"INFO", "text", true},
		{"warn", "JSON", true},
		{"error", "text", true},
		{"loud", "text", false},
		{"info", "xml", false},
	} {
		logger, err := Parse(tt.level, tt.format)
		if !tt.ok {
			assert.Error(t, err, tt.level+"/"+tt.format)
			continue
		}
		require.NoError(t, err, tt.level+"/"+tt.format)
		assert.NotNil(t, logger)
	}
}

func TestNewNop(t *testing.T) {
	assert.False(t, NewNop().Enabled(context.Background(), slog.LevelError))
}
