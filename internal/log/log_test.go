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

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{
		Component: component,
		Handler:   slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}), &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	return m
}

func TestLogger_ComponentTaggedOnce(t *testing.T) {
	logger, buf := newBufferLogger(ComponentApp)
	logger.WithComponent(ComponentApp).Info("hello")

	if n := strings.Count(buf.String(), `"component"`); n != 1 {
		t.Errorf("component appears %d times in %s", n, buf.String())
	}
	if got := lastLine(t, buf)[FieldComponent]; got != ComponentApp {
		t.Errorf("component = %v", got)
	}

	worker := logger.WithComponent(ComponentWorker)
	if worker.Component() != ComponentWorker {
		t.Errorf("Component() = %q", worker.Component())
	}
	if logger.With("k", "v").Component() != ComponentApp {
		t.Error("With dropped the component")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}

	logger, _ := newBufferLogger(ComponentApp)
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestComponentMiddleware(t *testing.T) {
	logger, _ := newBufferLogger("")
	var got string
	h := ComponentMiddleware(ComponentHTTP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context()).Component()
	}))

	req := httptest.NewRequest(http.MethodGet, "/journal", nil)
	req = req.WithContext(WithLogger(req.Context(), logger))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != ComponentHTTP {
		t.Errorf("component in handler = %q", got)
	}
}

func TestStructuredLogger(t *testing.T) {
	logger, buf := newBufferLogger("")
	sl := NewStructuredLogger(logger)
	req := httptest.NewRequest(http.MethodPost, "/journal?page=2", nil)

	tests := []struct {
		status int
		level  string
	}{
		{http.StatusCreated, "INFO"},
		{http.StatusForbidden, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		sl.LogHTTPEnd(context.Background(), req, tt.status, 3, "10.0.0.1")
		line := lastLine(t, buf)
		if line["level"] != tt.level {
			t.Errorf("status %d logged at %v, want %s", tt.status, line["level"], tt.level)
		}
		if line[FieldQuery] != "page=2" || line[FieldClientIP] != "10.0.0.1" {
			t.Errorf("fields = %v", line)
		}
	}

	sl.LogEntrySaved(context.Background(), OpCreate, 7, 1, "2024-03-06", 90)
	line := lastLine(t, buf)
	if line[FieldComponent] != ComponentJournal || line[FieldMinutes] != float64(90) {
		t.Errorf("entry saved line = %v", line)
	}

	sl.LogError(context.Background(), "failed", errors.New("boom"), ComponentHTTP, OpDelete, nil)
	line = lastLine(t, buf)
	if line[FieldError] != "boom" || line[FieldOperation] != OpDelete || line["level"] != "ERROR" {
		t.Errorf("error line = %v", line)
	}
}

func TestLogFields_ToSliceSorted(t *testing.T) {
	got := NewFields().WithOperation(OpList).WithClientIP("::1").ToSlice()
	want := []any{FieldClientIP, "::1", FieldOperation, OpList}
	if len(got) != len(want) {
		t.Fatalf("ToSlice() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ToSlice()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
