package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: " WARN ", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "", want: LevelInfo},
		{in: "verbose", want: LevelInfo},
		{in: "fatal", want: LevelInfo},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("ParseLevel(%q)=%s want %s", tc.in, got, tc.want)
		}
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var payload map[string]any
		if err := sonic.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, payload)
	}
	return out
}

func TestLogger_WritesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Writer: &buf}).Named("usecase").Named("match")
	logger.WarnContext(context.Background(), "toggle presence failed",
		"match_id", "m1",
		"error", errors.New("boom"),
		"elapsed", 1500*time.Millisecond,
		"total", decimal.RequireFromString("12.50"),
		zap.Int("confirmed", 3),
	)
	logger.Debug("dropped below level")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one log line, got %d: %q", len(lines), buf.String())
	}
	payload := lines[0]
	checks := map[string]any{
		"msg":       "toggle presence failed",
		"level":     "WARN",
		"logger":    "usecase.match",
		"match_id":  "m1",
		"error":     "boom",
		"elapsed":   "1.5s",
		"total":     "12.5",
		"confirmed": float64(3),
	}
	for key, want := range checks {
		if payload[key] != want {
			t.Fatalf("field %s = %v, want %v", key, payload[key], want)
		}
	}
	if _, ok := payload["trace_id"]; ok {
		t.Fatalf("trace_id must be absent without an active span")
	}
	caller, _ := payload["caller"].(string)
	if !strings.HasPrefix(caller, "logging/logger_test.go") {
		t.Fatalf("expected caller to point at the test, got %q", caller)
	}
}

func TestLogger_MalformedArgs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Writer: &buf}).With("group_id", "g1")
	logger.Info("odd args", 42, "dangling")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0]["group_id"] != "g1" {
		t.Fatalf("expected inherited field, got %v", lines[0]["group_id"])
	}
	if lines[0][badKey] == nil {
		t.Fatalf("expected %s field, got %v", badKey, lines[0])
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(Options{Level: LevelInfo, Format: FormatConsole, Writer: &buf}).Info("server started", "addr", ":8080")
	out := buf.String()
	if !strings.Contains(out, "server started") || !strings.Contains(out, `"addr": ":8080"`) {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if logger.Zap() == nil {
		t.Fatalf("expected nop zap logger")
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
	if logger.Named("x") == nil || logger.With("k", "v") == nil {
		t.Fatalf("expected child loggers from nil logger")
	}
}

func TestLogger_Enabled(t *testing.T) {
	t.Parallel()

	logger := New(Options{Level: LevelWarn, Writer: &bytes.Buffer{}})
	if logger.Enabled(LevelInfo) || !logger.Enabled(LevelError) {
		t.Fatalf("unexpected level gating")
	}
}
