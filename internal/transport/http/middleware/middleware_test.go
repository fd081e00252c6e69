package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"paycalc/internal/requestctx"
)

type fakeRecorder struct {
	route  string
	status int
}

func (f *fakeRecorder) Record(_ string, route string, status int, _ time.Duration) {
	f.route = route
	f.status = status
}

func TestLoggerRecordsRoutePattern(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	recorder := &fakeRecorder{}

	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(Logger(logger, recorder))
	router.Get("/cities/{id}", func(w http.ResponseWriter, r *http.Request) {
		if requestctx.Logger(r.Context()) == slog.Default() {
			t.Error("expected request scoped logger")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cities/shanghai", nil))

	if recorder.route != "/cities/{id}" || recorder.status != http.StatusTeapot {
		t.Fatalf("unexpected recording: %+v", recorder)
	}
	var entry map[string]any
	if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
		t.Fatalf("expected json access log: %v", err)
	}
	if entry["path"] != "/cities/shanghai" || entry["requestId"] == "" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	called := false
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"baseSalary":15000}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called || rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 without calling next, got %d", rec.Code)
	}
}

func TestBodyLimitCapsStreamedBody(t *testing.T) {
	var readErr error
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader(`{"baseSalary":15000}`)))
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Fatal("expected read error past the limit")
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected nosniff header")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}
	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "connect-src 'self' ws://example.com wss://example.com") {
		t.Fatalf("expected connect-src for the live endpoint, got %q", csp)
	}
}

func TestSecureHeadersSkipsHSTSOutsideProduction(t *testing.T) {
	handler := SecureHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("expected no HSTS outside production")
	}
}
