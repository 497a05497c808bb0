package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
)

// IPRateLimitMiddleware enforces the per-minute limit for the client IP
func (rl *RateLimiter) IPRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := rl.AllowIP(c.Request.Context(), ip)
		if err != nil {
			// never block on limiter failure
			slog.Error("Rate limit check failed", "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitIPBlock()
			}

			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			apperrors.Respond(c, apperrors.NewRateLimitError(strconv.Itoa(retryAfter)+"s"))
			return
		}

		c.Next()
	}
}

// HandleRateLimitStatus reports the caller's current allowance without
// consuming from it. Mount it outside IPRateLimitMiddleware.
func (rl *RateLimiter) HandleRateLimitStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		result := rl.PeekIP(c.Request.Context(), ip)

		c.JSON(http.StatusOK, gin.H{
			"ip":               ip,
			"limit_per_minute": result.Limit,
			"remaining":        result.Remaining,
			"reset_at":         result.ResetAt.Unix(),
			"redis_enabled":    rl.redisClient.IsEnabled(),
		})
	}
}
