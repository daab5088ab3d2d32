package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestCaptureHandler(t *testing.T) {
	t.Run("captures records and attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		records := handler.Records()
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].Attrs["key"] != "value" {
			t.Errorf("Expected key=value, got %v", records[0].Attrs)
		}
		if _, ok := handler.Find("error"); !ok {
			t.Error("Expected to find 'error message'")
		}
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		if got := len(handler.RecordsAt(slog.LevelWarn)); got != 1 {
			t.Errorf("Expected 1 warn record, got %d", got)
		}
		AssertLogged(t, handler, slog.LevelDebug, "debug")
	})

	t.Run("keeps With attributes and groups", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "pipeline").
			Info("stage", slog.Group("context", slog.Int("line", 3)))

		r := AssertLogged(t, handler, slog.LevelInfo, "stage")
		if r.Attrs["component"] != "pipeline" {
			t.Errorf("Expected component attribute, got %v", r.Attrs)
		}
		if r.Attrs["context.line"] != int64(3) {
			t.Errorf("Expected context.line=3, got %v", r.Attrs)
		}
	})

	t.Run("derived loggers share records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.WithGroup("g").Info("grouped", slog.String("k", "v"))
		logger.Info("plain")

		records := handler.Records()
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].Attrs["g.k"] != "v" {
			t.Errorf("Expected g.k=v, got %v", records[0].Attrs)
		}
		AssertNoErrors(t, handler)
	})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, "nested/er.csv", ERTable)

	if path != filepath.Join(dir, "nested", "er.csv") {
		t.Errorf("unexpected path %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != ERTable {
		t.Error("content mismatch")
	}
}
