package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func TestCtxAddsRequestID(t *testing.T) {
	buf := captureLogs(t, "info")

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("handled")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want req-123", entry["request_id"])
	}
	if entry["message"] != "handled" {
		t.Errorf("message = %v, want handled", entry["message"])
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t, "warn")

	Info().Msg("dropped")
	Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestCtxErrWithoutRequestID(t *testing.T) {
	buf := captureLogs(t, "info")

	CtxErr(context.Background(), errors.New("boom")).Msg("failed")

	out := buf.String()
	if strings.Contains(out, "request_id") {
		t.Errorf("unexpected request_id field: %s", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("error field missing: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"WARNING": "warn",
		"bogus":   "info",
		"":        "info",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLoggerFollowsInit(t *testing.T) {
	buf := captureLogs(t, "info")

	l := Logger()
	l.Info().Msg("direct")

	if !strings.Contains(buf.String(), `"message":"direct"`) {
		t.Errorf("Logger() does not write to the configured output: %s", buf.String())
	}
}
