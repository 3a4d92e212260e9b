/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, cfg Config) *Logger {
	cfg.Output = buf
	l := New(cfg)
	l.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   TraceLevel,
		"DEBUG":   DebugLevel,
		" info ":  InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestInitializeRejectsInvalidLevel(t *testing.T) {
	if err := Initialize(Config{Level: Level(42)}); err == nil {
		t.Fatal("Initialize() accepted an out-of-range level")
	}
}

func TestPrettyFormattingSortsFields(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: InfoLevel, Component: "repokit"})

	l.Log(InfoLevel, "wrote page", String("path", "index.html"), Int("bytes", 42))

	out := buf.String()
	for _, part := range []string{"2025-01-01 12:00:00", "[INFO]", "repokit:", "wrote page", "{bytes=42, path=index.html}"} {
		if !strings.Contains(out, part) {
			t.Errorf("pretty output missing %q\nOutput: %s", part, out)
		}
	}
}

func TestNoOpMarker(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: InfoLevel, NoOp: true})

	l.Log(InfoLevel, "skipping write")

	if !strings.Contains(buf.String(), "[NO-OP]") {
		t.Errorf("expected [NO-OP] marker, got %s", buf.String())
	}
}

func TestJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: InfoLevel, JSON: true, Component: "repokit"})

	l.Log(WarnLevel, "identity lookup failed", Err(errors.New("HTTP 401")))

	var parsed LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed); err != nil {
		t.Fatalf("Log() produced invalid JSON: %v\nOutput: %s", err, buf.String())
	}
	if parsed.Level != "WARN" || parsed.Message != "identity lookup failed" {
		t.Errorf("unexpected entry: %+v", parsed)
	}
	if parsed.Fields["error"] != "HTTP 401" {
		t.Errorf("error field = %v", parsed.Fields["error"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: WarnLevel})

	l.Log(InfoLevel, "info message")
	l.Log(DebugLevel, "debug message")
	l.Log(WarnLevel, "warn message")
	l.Log(ErrorLevel, "error message")

	out := buf.String()
	if strings.Contains(out, "info message") || strings.Contains(out, "debug message") {
		t.Errorf("messages below WARN should be filtered: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("WARN and ERROR should appear: %s", out)
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := Bool("changed", true); f.Key != "changed" || f.Value != true {
		t.Errorf("Bool() = %+v", f)
	}
	if f := Duration("timeout", 20*time.Second); f.Value != "20s" {
		t.Errorf("Duration() = %+v", f)
	}
	if f := Err(nil); f.Value != "<nil>" {
		t.Errorf("Err(nil) = %+v", f)
	}
}

func TestSetOutputRedirectsDefaultLogger(t *testing.T) {
	if err := Initialize(Config{Level: InfoLevel, Component: "test"}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("output test message")
	Debug("filtered debug message")

	out := buf.String()
	if !strings.Contains(out, "output test message") {
		t.Errorf("SetOutput() did not redirect output: %s", out)
	}
	if strings.Contains(out, "filtered debug message") {
		t.Errorf("debug message should be filtered at info level: %s", out)
	}
}

func TestFallbackLogging(t *testing.T) {
	original := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = original }()

	// Must not panic without an initialized logger.
	Info("fallback test message")
	Warn("dropped")
}
