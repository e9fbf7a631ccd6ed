package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("falls back to info on unknown level", func(t *testing.T) {
		log, err := New("chatty", "development")
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if log.Desugar().Core().Enabled(zapcore.DebugLevel) {
			t.Error("Expected debug to be disabled")
		}
		if !log.Desugar().Core().Enabled(zapcore.InfoLevel) {
			t.Error("Expected info to be enabled")
		}
	})

	t.Run("builds production logger", func(t *testing.T) {
		log, err := New("warn", "production")
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if log.Desugar().Core().Enabled(zapcore.InfoLevel) {
			t.Error("Expected info to be disabled at warn level")
		}
	})
}

func TestCronLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := CronLogger{Log: zap.New(core).Sugar()}

	l.Info("skip", "job", "market")
	l.Error(errors.New("boom"), "job failed", "job", "market")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("Expected debug level for Info, got %s", entries[0].Level)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("Expected error level, got %s", entries[1].Level)
	}
	if entries[1].ContextMap()["error"] != "boom" {
		t.Errorf("Expected error field, got %v", entries[1].ContextMap())
	}
}
