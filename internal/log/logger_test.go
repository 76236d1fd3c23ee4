package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newJSONLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, ComponentStorage)

	l.Info("hello", "k", "v")
	l.WithComponent(ComponentHTTP).Warn("again")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0][FieldComponent] != ComponentStorage || lines[0]["k"] != "v" {
		t.Errorf("unexpected first line: %v", lines[0])
	}
	if lines[1][FieldComponent] != ComponentHTTP || lines[1]["level"] != "WARN" {
		t.Errorf("unexpected second line: %v", lines[1])
	}
}

func TestNewDefaultsComponent(t *testing.T) {
	l := New(Config{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil)})
	if l.Component() != ComponentApp {
		t.Errorf("Component() = %q, want %q", l.Component(), ComponentApp)
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got == nil || got.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %v", got)
	}

	var buf bytes.Buffer
	l := newJSONLogger(&buf, ComponentHTTP)
	ctx := NewContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("expected logger stored in context")
	}
}

func TestStructuredLoggerHTTPLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newJSONLogger(&buf, ComponentTrace))
	req := httptest.NewRequest(http.MethodGet, "/totals?salary=1", nil)

	sl.LogHTTPStart(context.Background(), req, "req_1", "127.0.0.1")
	sl.LogHTTPEnd(context.Background(), req, "req_1", 200, 3, "127.0.0.1")
	sl.LogHTTPEnd(context.Background(), req, "req_1", 422, 3, "127.0.0.1")
	sl.LogHTTPEnd(context.Background(), req, "req_1", 500, 3, "127.0.0.1")

	lines := decodeLines(t, &buf)
	want := []string{"INFO", "INFO", "WARN", "ERROR"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, lvl := range want {
		if lines[i]["level"] != lvl {
			t.Errorf("line %d level = %v, want %s", i, lines[i]["level"], lvl)
		}
		if lines[i][FieldRequestID] != "req_1" {
			t.Errorf("line %d missing request id: %v", i, lines[i])
		}
	}
	if lines[0][FieldQuery] != "salary=1" {
		t.Errorf("expected query on start line, got %v", lines[0][FieldQuery])
	}
}

func TestStructuredLoggerLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newJSONLogger(&buf, ComponentHTTP))

	sl.LogError(context.Background(), "boom", errors.New("db down"), ComponentStorage, OpList, nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got[FieldError] != "db down" || got[FieldOperation] != OpList || got[FieldComponent] != ComponentStorage {
		t.Errorf("unexpected error line: %v", got)
	}
}
