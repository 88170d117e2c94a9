package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")

	log, err := New(Options{Debug: true, File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Debug("session created")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	if !strings.Contains(string(data), `"step":"session created"`) {
		t.Fatalf("expected json entry in log file, got %s", data)
	}
}

func TestNewWithoutFile(t *testing.T) {
	log, err := New(Options{JSON: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level to be disabled by default")
	}
}

func TestNewQuiet(t *testing.T) {
	log, err := New(Options{Quiet: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("expected a no-op logger without a file")
	}

	path := filepath.Join(t.TempDir(), "quiet.log")
	log, err = New(Options{Quiet: true, File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("only in file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "only in file") {
		t.Fatalf("expected entry in file, got %s", data)
	}
}
