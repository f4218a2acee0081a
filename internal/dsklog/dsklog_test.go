package dsklog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// Test initialization of the global logger for testing (Dlogger)
func TestGlobalLoggerInitialization(t *testing.T) {
	t.Setenv(logLevelEnvVar, "debug")

	logPath := filepath.Join(t.TempDir(), "test.log")
	InitializeDlogger(logPath)
	Dlogger.Debug("Test message")

	// Ensure logger is not nil
	if Dlogger == nil {
		t.Fatal("Dlogger is not initialized")
	}

	// Verify the log level
	if Dlogger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("Expected log level to be Debug, got %v", Dlogger.GetLevel())
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !bytes.Contains(data, []byte("Test message")) {
		t.Errorf("Expected log message not found in %s", logPath)
	}

	// Test logging output to a buffer instead of file
	var buf bytes.Buffer
	Dlogger.Out = &buf

	Dlogger.Debug("Buffered message")

	if !bytes.Contains(buf.Bytes(), []byte("Buffered message")) {
		t.Errorf("Expected log message not found in buffer")
	}
}

func TestDefaultLevelIsInfo(t *testing.T) {
	t.Setenv(logLevelEnvVar, "")

	InitializeDlogger(os.DevNull)

	if Dlogger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("Expected log level to be Info, got %v", Dlogger.GetLevel())
	}
}

func TestSetLevel(t *testing.T) {
	t.Setenv(logLevelEnvVar, "")

	logPath := filepath.Join(t.TempDir(), "test.log")
	InitializeDlogger(logPath)

	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel returned error: %v", err)
	}

	if Dlogger.GetLevel() != logrus.ErrorLevel {
		t.Fatalf("Expected log level to be Error, got %v", Dlogger.GetLevel())
	}

	if err := SetLevel("invalid"); err == nil {
		t.Fatalf("SetLevel should fail for invalid level")
	}

	if Dlogger.GetLevel() != logrus.ErrorLevel {
		t.Fatalf("Log level should remain Error after invalid SetLevel attempt, got %v", Dlogger.GetLevel())
	}
}

func TestEnableConsole(t *testing.T) {
	t.Setenv(logLevelEnvVar, "info")
	InitializeDlogger("")

	var console bytes.Buffer
	EnableConsole(&console)

	WithPrefix("dwalk").Info("expanded directory")
	Dlogger.Debug("hidden at info level")

	out := console.String()
	if !strings.Contains(out, "expanded directory") {
		t.Errorf("console output missing info entry: %q", out)
	}
	if !strings.Contains(out, "dwalk") {
		t.Errorf("console output missing prefix: %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Errorf("console output should not contain debug entry: %q", out)
	}
}
