package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProvider(t *testing.T, enabled bool) *MetricsProvider {
	t.Helper()
	mp, err := NewMetricsProvider(
		&config.MetricsConfig{Enabled: enabled, Path: "/metrics"},
		&config.AppConfig{Name: "test-svc"},
		zap.NewNop(),
	)
	require.NoError(t, err)
	require.NotNil(t, mp)
	return mp
}

// ── MetricsProvider (disabled) ───────────────────────────────────────────────

func TestMetricsProvider_Disabled_NoOp(t *testing.T) {
	mp := newProvider(t, false)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		mp.RecordHTTPRequest(ctx, "POST", "/api/v1/plugins/createPlugin", 200, 10*time.Millisecond)
		mp.RecordSignedRequest(ctx, "userInfo", OutcomeOK, 5*time.Millisecond)
	})
	assert.NoError(t, mp.RegisterConnectionGauge(func() int64 { return 0 }))
}

func TestMetricsProvider_Handler_Disabled(t *testing.T) {
	mp := newProvider(t, false)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	mp.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsProvider_Shutdown_Disabled(t *testing.T) {
	mp := newProvider(t, false)
	assert.NoError(t, mp.Shutdown(context.Background()))
}

// ── MetricsProvider (enabled) ────────────────────────────────────────────────

func TestMetricsProvider_Enabled_Scrape(t *testing.T) {
	mp := newProvider(t, true)
	ctx := context.Background()

	mp.RecordHTTPRequest(ctx, "POST", "/api/v1/plugins/pluginRequest", 200, 20*time.Millisecond)
	mp.RecordSignedRequest(ctx, "userInfo", OutcomeOK, 15*time.Millisecond)
	mp.RecordSignedRequest(ctx, "giveRole", "INVALID_SIGNATURE", 3*time.Millisecond)
	require.NoError(t, mp.RegisterConnectionGauge(func() int64 { return 7 }))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	mp.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), "signed_requests_total")
	assert.Contains(t, string(body), "websocket_connections")
	assert.Contains(t, string(body), "INVALID_SIGNATURE")
}

func TestMetricsProvider_Meter(t *testing.T) {
	mp := newProvider(t, true)
	assert.NotNil(t, mp.Meter())

	assert.NoError(t, mp.Shutdown(context.Background()))
}

// ── MetricsMiddleware ────────────────────────────────────────────────────────

func TestMetricsMiddleware_RecordsRequests(t *testing.T) {
	mp := newProvider(t, true)

	router := gin.New()
	router.Use(MetricsMiddleware(mp))
	router.POST("/api/v1/plugins/getAppstorePlugins", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/plugins/getAppstorePlugins", nil))
	require.Equal(t, http.StatusOK, w.Code)

	scrape := httptest.NewRecorder()
	mp.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/api/v1/plugins/getAppstorePlugins")
}
