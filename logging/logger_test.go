package logging

import (
	"bytes"
	"encoding/json"
	"errors"
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
		{"", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNewJSON(t *testing.T) {
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("hidden")
	l.Error("render failed", errors.New("surface lost"), "frame", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["msg"] != "render failed" || entry["error"] != "surface lost" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestEnvOverridesLevel(t *testing.T) {
	t.Setenv(LevelEnv, "debug")
	var buf bytes.Buffer
	l, err := New(&buf, "error", "text")
	if err != nil {
		t.Fatal(err)
	}
	if l.Level() != slog.LevelDebug {
		t.Errorf("expected debug from env, got %v", l.Level())
	}
	l.Debug("fps", "value", 60)
	if !strings.Contains(buf.String(), "fps") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestNewRejectsFormat(t *testing.T) {
	t.Setenv(LevelEnv, "")
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
