package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

func TestLoggerMiddlewareScopesLoggerAndLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := chimiddleware.RequestID(NewLoggerMiddleware(log).LoggerMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Info("inside handler")
			w.WriteHeader(http.StatusCreated)
		})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/transactions", nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var inside, done map[string]any
	if err := json.Unmarshal(lines[0], &inside); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(lines[1], &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if inside["path"] != "/transactions" || inside["request_id"] == "" {
		t.Fatalf("handler logger missing request attrs: %v", inside)
	}
	if done["msg"] != "request completed" || done["status"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected completion line: %v", done)
	}
}
