package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycalc/internal/platform/config"
)

func testConfig() config.Config {
	return config.Config{
		Addr:               "127.0.0.1:0",
		Environment:        "test",
		MaxBodyBytes:       65536,
		RateLimitPerMinute: 0,
		MetricsEnabled:     true,
		LogLevel:           "error",
		LogFormat:          "json",
		ShutdownTimeout:    time.Second,
		WSMaxMessageBytes:  4096,
	}
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	app, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return app
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthAndReadiness(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, testConfig()).Router)
	defer ts.Close()

	status, body := get(t, ts.Client(), ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, body = get(t, ts.Client(), ts.URL+"/readyz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body)
}

func TestCalculateThroughRouter(t *testing.T) {
	app := newTestApp(t, testConfig())
	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/v1/payroll/calculate", "application/json",
		strings.NewReader(`{"baseSalary":15000,"city":"上海"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))

	_, metricsBody := get(t, ts.Client(), ts.URL+"/metrics")
	assert.Contains(t, metricsBody, `paycalc_calculations_total{city="shanghai"} 1`)
	assert.Contains(t, metricsBody, `route="/api/v1/payroll/calculate"`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	app := newTestApp(t, cfg)
	assert.Nil(t, app.Metrics)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	// Falls through to the UI.
	assert.Contains(t, rec.Body.String(), "<html")
}

func TestRateLimitApplied(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	app := newTestApp(t, cfg)

	first := httptest.NewRecorder()
	app.Router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/payroll/cities", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	app.Router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/payroll/cities", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate_limited")
}

func TestEmbeddedUIServedAtRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestApp(t, testConfig()).Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "薪资测算")
}

func TestPresetsFileLoadedAndReloaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	writePresets(t, path, "hangzhou", "杭州", 12)

	cfg := testConfig()
	cfg.PresetsFile = path
	app := newTestApp(t, cfg)

	city, ok := app.Service.Presets().Lookup("杭州")
	require.True(t, ok)
	assert.Equal(t, 12.0, city.Rates.Housing)

	writePresets(t, path, "hangzhou", "杭州", 7)
	app.ReloadPresets()
	city, _ = app.Service.Presets().Lookup("hangzhou")
	assert.Equal(t, 7.0, city.Rates.Housing)

	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))
	app.ReloadPresets()
	city, _ = app.Service.Presets().Lookup("hangzhou")
	assert.Equal(t, 7.0, city.Rates.Housing, "bad file keeps previous presets")
}

func TestNewFailsOnBadPresetsFile(t *testing.T) {
	cfg := testConfig()
	cfg.PresetsFile = filepath.Join(t.TempDir(), "missing.toml")
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	app := newTestApp(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func writePresets(t *testing.T, path, id, name string, housing float64) {
	t.Helper()
	content := fmt.Sprintf(`[[city]]
id = %q
name = %q
pension = 8.0
medical = 2.0
unemployment = 0.5
injury = 0.2
maternity = 0.0
housing = %.1f
`, id, name, housing)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
