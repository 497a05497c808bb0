package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCompressedRouter(cm *Compressor) *gin.Engine {
	r := gin.New()
	r.Use(cm.Middleware())
	r.GET("/big", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"payload": strings.Repeat("transported ", 500)})
	})
	r.GET("/small", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"ok":true}`))
	})
	r.GET("/png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", []byte(strings.Repeat("x", 4096)))
	})
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path string, acceptGzip bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptGzip {
		req.Header.Set("Accept-Encoding", "gzip, deflate")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompressor_GzipsJSON(t *testing.T) {
	cm := NewCompressor(DefaultCompressionConfig())
	r := newCompressedRouter(cm)

	w := get(r, "/big", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(body), "transported transported")

	stats := cm.GetStats()
	assert.EqualValues(t, 1, stats["compressed_requests"])
	assert.Less(t, stats["compression_ratio"].(float64), 0.5)
}

func TestCompressor_SkipsIneligibleResponses(t *testing.T) {
	cm := NewCompressor(DefaultCompressionConfig())
	r := newCompressedRouter(cm)

	tests := []struct {
		name   string
		path   string
		accept bool
	}{
		{"client without gzip", "/big", false},
		{"below minimum size", "/small", true},
		{"binary content type", "/png", true},
		{"no body", "/empty", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, tt.accept)
			assert.Empty(t, w.Header().Get("Content-Encoding"))
		})
	}

	assert.EqualValues(t, 0, cm.GetStats()["compressed_requests"])
}

func TestNewCompressor_InvalidLevelFallsBack(t *testing.T) {
	cm := NewCompressor(CompressionConfig{CompressionLevel: 42, ContentTypes: []string{"application/json"}})
	r := newCompressedRouter(cm)

	w := get(r, "/big", true)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
