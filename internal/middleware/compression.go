package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // smaller bodies stay plain
	CompressionLevel int      // gzip level, 1-9
	ContentTypes     []string // content types to compress
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024,
		CompressionLevel: 6,
		ContentTypes: []string{
			"application/json",
			"text/plain",
			"text/html",
			"text/css",
			"text/javascript",
			"application/javascript",
		},
	}
}

// Compressor gzips eligible responses for clients that accept it
type Compressor struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

// NewCompressor creates a compressor with a pool of gzip writers
func NewCompressor(config CompressionConfig) *Compressor {
	if config.CompressionLevel < gzip.BestSpeed || config.CompressionLevel > gzip.BestCompression {
		config.CompressionLevel = gzip.DefaultCompression
	}

	cm := &Compressor{config: config, stats: NewCompressionStats()}
	cm.pool.New = func() interface{} {
		gz, err := gzip.NewWriterLevel(io.Discard, cm.config.CompressionLevel)
		if err != nil {
			// level is validated above
			panic(err)
		}
		return gz
	}
	return cm
}

// Middleware wraps the response writer. Bodies are held back until MinSize
// bytes arrive so small responses go out uncompressed.
func (cm *Compressor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		w := &gzipWriter{ResponseWriter: c.Writer, cm: cm}
		c.Writer = w
		defer func() {
			w.finish()
			c.Writer = w.ResponseWriter
		}()

		c.Next()
	}
}

// GetStats returns compression statistics
func (cm *Compressor) GetStats() map[string]interface{} {
	return cm.stats.GetStats()
}

func (cm *Compressor) shouldCompress(contentType string) bool {
	for _, ct := range cm.config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

type gzipWriter struct {
	gin.ResponseWriter
	cm *Compressor

	decided  bool
	compress bool
	pending  bytes.Buffer
	gz       *gzip.Writer
	out      *countingWriter
	raw      int64
}

func (w *gzipWriter) eligible() bool {
	h := w.Header()
	return !w.ResponseWriter.Written() &&
		h.Get("Content-Encoding") == "" &&
		w.cm.shouldCompress(h.Get("Content-Type"))
}

func (w *gzipWriter) startGzip() {
	w.decided = true
	w.compress = true

	h := w.Header()
	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")
	h.Del("Content-Length")

	w.out = &countingWriter{w: w.ResponseWriter}
	w.gz = w.cm.pool.Get().(*gzip.Writer)
	w.gz.Reset(w.out)
}

// flushPending sends held-back bytes through the chosen path
func (w *gzipWriter) flushPending() error {
	if w.pending.Len() == 0 {
		return nil
	}
	defer w.pending.Reset()
	if w.compress {
		_, err := w.gz.Write(w.pending.Bytes())
		return err
	}
	_, err := w.ResponseWriter.Write(w.pending.Bytes())
	return err
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	w.raw += int64(len(data))

	if !w.decided {
		if !w.eligible() {
			w.decided = true
			if err := w.flushPending(); err != nil {
				return 0, err
			}
			return w.ResponseWriter.Write(data)
		}

		w.pending.Write(data)
		if w.pending.Len() < w.cm.config.MinSize {
			return len(data), nil
		}
		w.startGzip()
		if err := w.flushPending(); err != nil {
			return 0, err
		}
		return len(data), nil
	}

	if w.compress {
		return w.gz.Write(data)
	}
	return w.ResponseWriter.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipWriter) Written() bool {
	return w.pending.Len() > 0 || w.ResponseWriter.Written()
}

func (w *gzipWriter) Flush() {
	if !w.decided && w.pending.Len() > 0 {
		w.startGzip()
		_ = w.flushPending()
	}
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipWriter) finish() {
	if !w.decided {
		if w.pending.Len() == 0 {
			return
		}
		// never reached MinSize
		w.decided = true
		if err := w.flushPending(); err != nil {
			slog.Warn("Failed to write response body", "error", err)
		}
	}

	if !w.compress {
		w.cm.stats.RecordRequest(w.raw, w.raw, false)
		return
	}

	if err := w.gz.Close(); err != nil {
		slog.Warn("Failed to finish gzip stream", "error", err)
	}
	w.gz.Reset(io.Discard)
	w.cm.pool.Put(w.gz)
	w.gz = nil

	w.cm.stats.RecordRequest(w.raw, w.out.n, true)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	TotalRequests      int64
	CompressedRequests int64
	TotalBytes         int64
	CompressedBytes    int64
	mutex              sync.RWMutex
}

// NewCompressionStats creates new compression statistics
func NewCompressionStats() *CompressionStats {
	return &CompressionStats{}
}

// RecordRequest records a request's compression stats
func (cs *CompressionStats) RecordRequest(originalSize, compressedSize int64, compressed bool) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.TotalRequests++
	cs.TotalBytes += originalSize

	if compressed {
		cs.CompressedRequests++
		cs.CompressedBytes += compressedSize
	}
}

// GetStats returns current compression statistics
func (cs *CompressionStats) GetStats() map[string]interface{} {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	ratio := float64(1)
	if cs.TotalBytes > 0 {
		ratio = float64(cs.CompressedBytes) / float64(cs.TotalBytes)
	}

	return map[string]interface{}{
		"total_requests":      cs.TotalRequests,
		"compressed_requests": cs.CompressedRequests,
		"total_bytes":         cs.TotalBytes,
		"compressed_bytes":    cs.CompressedBytes,
		"compression_ratio":   ratio,
	}
}
