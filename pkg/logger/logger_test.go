package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	// Create a new logger without webhooks
	l := NewLogger("", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelColor(t *testing.T) {
	levels := []LogLevel{
		LevelCritical,
		LevelError,
		LevelWarn,
		LevelSuccess,
		LevelInfo,
		LevelDebug,
		LevelSystem,
	}

	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			color := level.Color()
			if color == "" {
				t.Error("Expected color to be non-empty")
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLogFileCreation(t *testing.T) {
	// Clean up logs directory before test
	logsDir := filepath.Join(".", "logs")
	os.RemoveAll(logsDir)

	l := NewLogger("", "")
	defer l.Close()

	// Check that logs directory was created
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		t.Error("Expected logs directory to be created")
	}

	// Check that log files were created
	combinedLog := filepath.Join(logsDir, "combined.log")
	errorLog := filepath.Join(logsDir, "error.log")

	if _, err := os.Stat(combinedLog); os.IsNotExist(err) {
		t.Error("Expected combined.log to be created")
	}

	if _, err := os.Stat(errorLog); os.IsNotExist(err) {
		t.Error("Expected error.log to be created")
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}

func TestTextFormatter(t *testing.T) {
	l := logrus.New()
	e := logrus.NewEntry(l).WithFields(logrus.Fields{
		fieldLevel:  LevelSuccess,
		fieldPrefix: "DB",
	})
	e.Message = "conectado"
	e.Time = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	out, err := (&textFormatter{}).Format(e)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	want := "[2024-03-01 10:30:00] [SUCCESS] [DB]: conectado\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestLevelOfForeignEntry(t *testing.T) {
	e := logrus.NewEntry(logrus.New())
	e.Level = logrus.WarnLevel
	if got := levelOf(e); got != LevelWarn {
		t.Errorf("levelOf() = %v, want %v", got, LevelWarn)
	}
}

func TestConsoleOutput(t *testing.T) {
	l := NewLogger("", "")
	defer l.Close()

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.Warn("mensaje de prueba", "TEST")

	if !strings.Contains(buf.String(), "[TEST]: mensaje de prueba") {
		t.Errorf("console output = %q, missing message", buf.String())
	}
	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("console output = %q, missing level", buf.String())
	}
}

func TestWebhookRouting(t *testing.T) {
	var mu sync.Mutex
	got := map[string]webhookPayload{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		mu.Lock()
		got[r.URL.Path] = p
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	l := NewLogger(srv.URL+"/errors", srv.URL+"/logs")
	l.SetOutput(io.Discard)
	l.Error("fallo", "TEST")
	l.Info("hola", "TEST")
	l.Close()

	mu.Lock()
	defer mu.Unlock()
	if p, ok := got["/errors"]; !ok || p.Embeds[0].Color != LevelError.DiscordColor() {
		t.Errorf("error webhook payload = %+v", p)
	}
	if p, ok := got["/logs"]; !ok || p.Embeds[0].Title != "[INFO] TEST" {
		t.Errorf("logs webhook payload = %+v", p)
	}
}
