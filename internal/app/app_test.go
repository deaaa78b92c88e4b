package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsight/internal/config"
	"sheetsight/internal/shared/testutil"
	api "sheetsight/pkg/contracts/api/v1"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Telemetry.EnableTracing = false
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := newApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t, testConfig())

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.Equal(t, ":0", app.Server.Addr)
	require.NotNil(t, app.Services)
	assert.NotNil(t, app.Services.Reports)
	assert.NotNil(t, app.Services.Compare)
	assert.NotNil(t, app.Services.Health)
	assert.NotNil(t, app.OTelProviders.PrometheusHTTP)
}

func TestApplicationRoutes(t *testing.T) {
	app := newTestApplication(t, testConfig())

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "templates", method: http.MethodGet, path: "/api/templates", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "unknown report", method: http.MethodGet, path: "/api/report/report_missing", wantStatus: http.StatusNotFound},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/api/upload-excel", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.Router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestApplicationUploadFlow(t *testing.T) {
	app := newTestApplication(t, testConfig())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Date,Product,Quantity,Revenue\n2024-01-05,A,150,4500\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("report_type", "sales"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-excel", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, app.Services.Sessions.Len())

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, 1, health.Sessions)
	assert.Equal(t, config.AppVersion, health.Version)
}

func TestApplicationCORS(t *testing.T) {
	cfg := testConfig()
	cfg.Security.AllowedOrigins = []string{"http://localhost:3000"}
	app := newTestApplication(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/upload-excel", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplicationRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}
	app := newTestApplication(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes[1:], http.StatusTooManyRequests)
}

func TestApplicationStartStop(t *testing.T) {
	app := newTestApplication(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	require.NoError(t, app.Stop(ctx))
}

func TestPerformStartupHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		path    string
		wantErr bool
	}{
		{name: "console output", output: "console"},
		{name: "writable dir", output: "file", path: filepath.Join(t.TempDir(), "app.log")},
		{name: "missing dir", output: "both", path: filepath.Join(t.TempDir(), "missing", "app.log"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Logging.Output = tt.output
			cfg.Logging.FilePath = tt.path
			app := newTestApplication(t, cfg)

			err := app.performStartupHealthCheck(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
