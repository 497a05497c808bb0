package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
)

type countingMetrics struct {
	hits, misses int
}

func (m *countingMetrics) IncrementCacheHit()  { m.hits++ }
func (m *countingMetrics) IncrementCacheMiss() { m.misses++ }

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewCache(ctx, ttl)
}

func TestCache_GetSetExpire(t *testing.T) {
	c := newTestCache(t, 20*time.Millisecond)

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCache_Stats(t *testing.T) {
	c := newTestCache(t, time.Minute)
	c.Set("a", nil)
	c.Set("b", nil)

	stats := c.Stats()
	assert.Equal(t, 2, stats["total_items"])
	assert.Equal(t, 2, stats["active_items"])

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestKeyFor_IgnoresFieldOrder(t *testing.T) {
	a := prediction.DefaultPassenger()
	b := prediction.DefaultPassenger()
	assert.Equal(t, KeyFor(a), KeyFor(b))

	b.Spa = 1
	assert.NotEqual(t, KeyFor(a), KeyFor(b))
}

func TestCache_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestCache(t, time.Minute)
	metrics := &countingMetrics{}

	calls := 0
	r := gin.New()
	r.POST("/api/predict", c.Middleware(metrics), func(ctx *gin.Context) {
		calls++
		var p prediction.PassengerRecord
		if err := ctx.ShouldBindJSON(&p); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
			return
		}
		ctx.JSON(http.StatusOK, prediction.Predict(p))
	})

	do := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := do(`{"cryoSleep": true, "age": 30}`)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(`{"age":30,"cryoSleep":true}`)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	bad := do(`{"age":`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}
