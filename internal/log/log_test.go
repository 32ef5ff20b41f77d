package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	tests := []struct {
		name   string
		fields []any
		want   string
	}{
		{"no fields", nil, "2025-12-06T10:45:00 [WARN] [cache] miss\n"},
		{"pairs", []any{"key", "blob-store://x", "size", 3}, "2025-12-06T10:45:00 [WARN] [cache] miss key=blob-store://x size=3\n"},
		{"orphan key", []any{"key"}, "2025-12-06T10:45:00 [WARN] [cache] miss key=<missing>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, format(ts, LevelWarn, CatCache, "miss", tt.fields...))
		})
	}
}

func TestInitWriter_LevelsAndToggle(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetMinLevel(LevelWarn)
	Debug(CatVersions, "hidden")
	Warn(CatVersions, "shown", "version", "7.0.0")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [versions] shown version=7.0.0")

	SetEnabled(false)
	Error(CatVersions, "muted")
	require.NotContains(t, buf.String(), "muted")

	SetEnabled(true)
	ErrorErr(CatDB, "save failed", errors.New("disk full"))
	require.Contains(t, buf.String(), "error=disk full")
}

func TestNoLoggerInstalled(t *testing.T) {
	install(nil)
	require.NotPanics(t, func() { Info(CatConfig, "dropped") })
	require.Nil(t, Subscribe(context.Background()))
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Info(CatConfig, "loaded", "file", "config.yaml")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] loaded file=config.yaml")
}

func TestSubscribe(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := Subscribe(ctx)
	require.NotNil(t, ch)

	Info(CatServer, "listening")

	select {
	case e := <-ch:
		require.Contains(t, e.Payload, "[INFO] [server] listening")
	case <-time.After(time.Second):
		require.Fail(t, "no log event")
	}
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelDebug, ParseLevel("verbose"))
}
