package monitoring

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_GetStats(t *testing.T) {
	m := NewMetrics(nil)

	m.RecordPrediction("api", true, 90)
	m.RecordPrediction("api", false, 60)
	m.IncrementCacheHit()
	m.IncrementCacheMiss()
	m.RecordSubmission(true)
	m.RecordSubmission(false)
	m.RecordRequest(http.MethodGet, "/health", http.StatusOK, 10*time.Millisecond)
	m.RecordRequest(http.MethodPost, "/api/predict", http.StatusBadRequest, 20*time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["predictions_total"])
	assert.Equal(t, int64(1), stats["transported_total"])
	assert.Equal(t, 50.0, stats["transported_rate_percent"])
	assert.Equal(t, 50.0, stats["cache_hit_rate_percent"])
	assert.Equal(t, int64(1), stats["submissions_started"])
	assert.Equal(t, int64(1), stats["submissions_rejected"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, map[int]int64{200: 1, 400: 1}, stats["status_code_distribution"])

	m.Reset()
	assert.Equal(t, int64(0), m.GetStats()["predictions_total"])
}

func TestMetrics_Percentile(t *testing.T) {
	m := NewMetrics(nil)
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(50))

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, m.GetPercentileResponseTime(50))
	assert.Equal(t, 100*time.Millisecond, m.GetPercentileResponseTime(100))
}

func TestPrometheus_Handler(t *testing.T) {
	prom := NewPrometheus()
	m := NewMetrics(prom)
	m.RecordPrediction("session", true, 90)
	m.RecordRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	m.SetActiveSessions(3)

	w := httptest.NewRecorder()
	prom.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `spacetitanic_predictions_total{outcome="transported",source="session"} 1`)
	assert.Contains(t, body, `spacetitanic_active_sessions 3`)
	assert.Contains(t, body, `spacetitanic_http_requests_total{method="GET",route="/health",status="2xx"} 1`)
}

func TestMonitoringMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(nil)

	r := gin.New()
	r.Use(MonitoringMiddleware(m, NewLogger(slog.LevelError)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestIsScannerUserAgent(t *testing.T) {
	assert.True(t, isScannerUserAgent("sqlmap/1.7"))
	assert.True(t, isScannerUserAgent("Mozilla Nikto"))
	assert.False(t, isScannerUserAgent("Mozilla/5.0"))
}

func TestMemoryMonitor_Collect(t *testing.T) {
	m := NewMetrics(nil)
	mm := NewMemoryMonitor(time.Second, m, NewLogger(slog.LevelError))

	stats := mm.Collect()
	assert.NotZero(t, stats.HeapSys)
	assert.Equal(t, stats, mm.Latest())
	assert.NotZero(t, m.GetStats()["go_heap_sys_bytes"])
}
