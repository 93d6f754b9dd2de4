package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		debug    string
		level    string
		expected LogLevel
	}{
		{name: "Debug via LOG_LEVEL", level: "debug", expected: LevelDebug},
		{name: "Info via LOG_LEVEL", level: "info", expected: LevelInfo},
		{name: "Warn via LOG_LEVEL", level: "warn", expected: LevelWarn},
		{name: "Warning alias", level: "warning", expected: LevelWarn},
		{name: "Error via LOG_LEVEL", level: "error", expected: LevelError},
		{name: "Case insensitive", level: "DEBUG", expected: LevelDebug},
		{name: "Unknown defaults to info", level: "loud", expected: LevelInfo},
		{name: "Empty defaults to info", expected: LevelInfo},
		{name: "DEBUG=true wins", debug: "true", level: "error", expected: LevelDebug},
		{name: "DEBUG=0 ignored", debug: "0", level: "warn", expected: LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levelFromEnv(tt.debug, tt.level); got != tt.expected {
				t.Errorf("levelFromEnv(%q, %q) = %v, want %v", tt.debug, tt.level, got, tt.expected)
			}
		})
	}
}

func TestLogLevelConstants(t *testing.T) {
	levels := []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for i := 0; i < len(levels)-1; i++ {
		if levels[i] >= levels[i+1] {
			t.Errorf("Log levels should be in ascending order: %v >= %v", levels[i], levels[i+1])
		}
	}
}

func TestNamedLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	prev := GetLevel()
	SetLevel(LevelDebug)
	defer SetLevel(prev)

	Named("pixel").Info("thumbnail for %s", "abc")
	Named("").Warn("bare")

	out := buf.String()
	if !strings.Contains(out, "[INFO] [pixel] thumbnail for abc") {
		t.Errorf("expected prefixed info line, got %q", out)
	}
	if !strings.Contains(out, "[WARN] bare") {
		t.Errorf("expected unprefixed warn line, got %q", out)
	}
}

func TestSetLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	prev := GetLevel()
	SetLevel(LevelWarn)
	defer SetLevel(prev)

	Debug("hidden")
	Info("hidden")
	Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown") {
		t.Errorf("expected error line, got %q", out)
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
