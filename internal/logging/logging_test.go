package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "warn", "json"))

	log.Info("dropped")
	log.Warn("kept", "parcel_id", "p1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "p1", line["parcel_id"])
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, "info", "text")
	require.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Info("server started", "addr", ":5000")
	require.Contains(t, buf.String(), "server started")
	require.Contains(t, buf.String(), ":5000")
}
