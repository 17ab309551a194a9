package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo},
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestInit_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Info("TestSubsystem", "hello %s", "world")

	out := buf.String()
	if !strings.Contains(out, "hello world") {
		t.Errorf("expected log output to contain message, got: %s", out)
	}
	if !strings.Contains(out, "subsystem=TestSubsystem") {
		t.Errorf("expected log output to contain subsystem, got: %s", out)
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, &buf)

	Debug("Sub", "debug message")
	Info("Sub", "info message")
	Warn("Sub", "warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug/info to be filtered out, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("expected warn message in output, got: %s", out)
	}
}

func TestError_IncludesErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Error("Sub", errors.New("boom"), "operation failed")

	out := buf.String()
	if !strings.Contains(out, "operation failed") || !strings.Contains(out, "boom") {
		t.Errorf("expected error output with message and error, got: %s", out)
	}
}

func TestLogger_FallsBackToDefault(t *testing.T) {
	saved := defaultLogger
	defer func() { defaultLogger = saved }()

	defaultLogger = nil
	if Logger() == nil {
		t.Error("Logger() should never return nil")
	}
}
