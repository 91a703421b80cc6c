package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func captureLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return l, &buf
}

func TestLoggerAttachesComponent(t *testing.T) {
	l, buf := captureLogger(ComponentHTTP)

	l.Info("Request started", FieldMethod, "GET", FieldPath, "/")

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentHTTP) {
		t.Errorf("missing component field: %s", out)
	}
	if !strings.Contains(out, FieldMethod+"=GET") || !strings.Contains(out, FieldPath+"=/") {
		t.Errorf("missing request fields: %s", out)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	l, buf := captureLogger(ComponentApp)

	l.WithComponent(ComponentBooks).Warn("Year book load failed", FieldYear, 2025)

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentBooks) {
		t.Errorf("expected books component: %s", out)
	}
	if !strings.Contains(out, FieldYear+"=2025") {
		t.Errorf("missing year field: %s", out)
	}
	if l.Component() != ComponentApp {
		t.Errorf("original logger component changed: %s", l.Component())
	}
}

func TestWithKeepsComponent(t *testing.T) {
	l, buf := captureLogger(ComponentStorage)

	l.With(FieldBackend, "sqlite").Error("save failed", FieldError, "disk gone")

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentStorage) {
		t.Errorf("With must preserve the component: %s", out)
	}
	if !strings.Contains(out, FieldBackend+"=sqlite") {
		t.Errorf("missing backend field: %s", out)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Component != ComponentApp {
		t.Errorf("default component: %s", cfg.Component)
	}
	if cfg.Level != slog.LevelInfo {
		t.Errorf("default level: %v", cfg.Level)
	}
}
