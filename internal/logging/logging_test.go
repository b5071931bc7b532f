package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFakeLogger(t *testing.T) {
	f := &FakeLogger{}
	require.Nil(t, f.Last())

	ctx := context.Background()
	f.Info(ctx, "one", "k", "v")
	f.Warn(ctx, "two")
	f.Error(ctx, "three", "err", "boom")

	require.Len(t, f.Entries, 3)
	require.Equal(t, "INFO", f.Entries[0].Level)
	require.Equal(t, []any{"k", "v"}, f.Entries[0].Args)
	require.Equal(t, "ERROR", f.Last().Level)
	require.Equal(t, "three", f.Last().Msg)

	// With 回傳同一實例，後續紀錄仍可驗證
	f.With("req", "123").Info(ctx, "four")
	require.Equal(t, "four", f.Last().Msg)
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	log.With("component", "stats").Error(context.Background(), "query failed", "error", "db down")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "ERROR", entry["level"])
	require.Equal(t, "query failed", entry["msg"])
	require.Equal(t, "stats", entry["component"])
	require.Equal(t, "db down", entry["error"])
}
