package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
)

// Config holds request hardening limits
type Config struct {
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// DefaultConfig returns limits sized for a passenger record payload
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes:   16 << 10,
		RequestTimeout: 30 * time.Second,
	}
}

var allowedContentTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// LimitBody caps request bodies at MaxBodyBytes
func (cfg Config) LimitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > cfg.MaxBodyBytes {
			apperrors.Respond(c, apperrors.NewValidationError("Request body too large", nil))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBodyBytes)
		c.Next()
	}
}

// ValidateContentType rejects bodies that are neither JSON nor form data
func (cfg Config) ValidateContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		contentType := strings.ToLower(c.GetHeader("Content-Type"))
		if contentType == "" {
			c.Next()
			return
		}

		for _, allowed := range allowedContentTypes {
			if strings.HasPrefix(contentType, allowed) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
			"error": "unsupported content type",
		})
	}
}

// RequestTimeout bounds the request context
func (cfg Config) RequestTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Timeout", strconv.Itoa(int(cfg.RequestTimeout.Seconds())))

		c.Next()
	}
}
