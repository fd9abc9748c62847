package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := RequestLogger(next, logger)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	requireStatus(t, rec, http.StatusTeapot)
	out := buf.String()
	if !strings.Contains(out, "method=GET") || !strings.Contains(out, "path=/events") || !strings.Contains(out, "status=418") {
		t.Fatalf("unexpected log line %q", out)
	}
}
