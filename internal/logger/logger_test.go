package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := parseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(&buf, false, "error", "")
	if Log == nil {
		t.Fatal("Log not initialized")
	}
	if Log.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled when LOG_LEVEL=error")
	}
}

func TestInitWritesToGivenWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(&buf, false, "warn", "")
	slog.Warn("remote url refresh failed", "error", "timeout")

	if !strings.Contains(buf.String(), `"msg":"remote url refresh failed"`) {
		t.Errorf("log record not written to writer: %q", buf.String())
	}
}
