package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "upper case warn", level: " WARN ", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "empty", level: "", want: slog.LevelInfo},
		{name: "unknown", level: "verbose", want: slog.LevelInfo},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, ParseLevel(testCase.level))
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("kept", slog.String("order_id", "o-1"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "order-svc", line["service"])
	assert.Equal(t, "o-1", line["order_id"])
}

func TestContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	logger := NewWithWriter(&bytes.Buffer{}, "info")
	ctx := IntoContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
