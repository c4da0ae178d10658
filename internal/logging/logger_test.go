package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// testConfig writes synchronously into buf so tests can inspect output
// immediately
func testConfig(buf *bytes.Buffer, level LogLevel) *Config {
	return &Config{
		Level:   level,
		Format:  "text",
		Output:  buf,
		Sync:    true,
		NoColor: true,
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "json format",
			config: &Config{
				Level:  LevelInfo,
				Format: "json",
				Output: &bytes.Buffer{},
				Sync:   true,
			},
		},
		{
			name: "text format",
			config: &Config{
				Level:  LevelDebug,
				Format: "text",
				Output: &bytes.Buffer{},
				Sync:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("NewLogger() returned nil")
			}
		})
	}
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testConfig(&buf, LevelDebug))

	geomLogger := logger.WithComponent("geom")
	geomLogger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "component=geom") {
		t.Errorf("Expected component=geom in output, got: %s", output)
	}
}

func TestLoggerWithRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testConfig(&buf, LevelDebug))

	requestLogger := logger.WithRequest("READ", 4096)
	requestLogger.Debug("processing request")

	output := buf.String()
	if !strings.Contains(output, "op=READ") {
		t.Errorf("Expected op=READ in output, got: %s", output)
	}
	if !strings.Contains(output, "address=4096") {
		t.Errorf("Expected address=4096 in output, got: %s", output)
	}
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testConfig(&buf, LevelDebug))

	testErr := errors.New("test error")
	errorLogger := logger.WithError(testErr)
	errorLogger.Error("operation failed")

	output := buf.String()
	if !strings.Contains(output, "test error") {
		t.Errorf("Expected 'test error' in output, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testConfig(&buf, LevelInfo))

	logger.Debug("hidden message")
	if got := buf.String(); strings.Contains(got, "hidden message") {
		t.Errorf("Debug message should be filtered at info level, got: %s", got)
	}

	logger.Info("visible message")
	if got := buf.String(); !strings.Contains(got, "visible message") {
		t.Errorf("Expected info message, got: %s", got)
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(testConfig(&buf, LevelDebug)))

	Debug("debug message", "key", "value")
	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("Expected debug message, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value, got: %s", output)
	}

	buf.Reset()
	Info("info message")
	output = buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message, got: %s", output)
	}

	buf.Reset()
	Warn("warning message")
	output = buf.String()
	if !strings.Contains(output, "warning message") {
		t.Errorf("Expected warning message, got: %s", output)
	}

	buf.Reset()
	Error("error message")
	output = buf.String()
	if !strings.Contains(output, "error message") {
		t.Errorf("Expected error message, got: %s", output)
	}
}

func TestAsyncWriterClose(t *testing.T) {
	var buf bytes.Buffer
	aw := newAsyncWriter(&buf, 10)

	if _, err := aw.Write([]byte("before close\n")); err != nil {
		t.Errorf("Write failed: %v", err)
	}

	if err := aw.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Close drains the channel, so the write must have landed
	if !strings.Contains(buf.String(), "before close") {
		t.Errorf("Expected buffered write to be flushed, got: %s", buf.String())
	}

	if _, err := aw.Write([]byte("after close\n")); err == nil {
		t.Error("Write after Close should fail")
	}
}
