package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and levels", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("report stored", slog.String("report_id", "report_1"))
		logger.Error("parse failed", slog.Int("code", 500))

		assert.Equal(t, 3, handler.Count())
		assert.True(t, handler.ContainsMessage("report stored"))
		assert.True(t, handler.ContainsAttr("report_id", "report_1"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("keeps bound attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		child := logger.With(slog.String("component", "report_service"))
		child.Info("hello")
		logger.Info("plain")

		records := handler.GetRecords()
		require.Len(t, records, 2)
		assert.Equal(t, "report_service", records[0].Attrs["component"])
		assert.NotContains(t, records[1].Attrs, "component")
	})

	t.Run("prefixes grouped keys", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("upload").Info("received", slog.Int64("size", 42))

		AssertLogAttr(t, handler, "upload.size", int64(42))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("one")
		logger.With("k", "v").Info("two")
		require.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})
}
