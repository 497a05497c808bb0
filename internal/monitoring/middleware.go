package monitoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// MonitoringMiddleware records request metrics and logs each request
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncrementRequest()

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method
		path := c.Request.URL.Path

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(method, route, statusCode, duration)

		logger.RequestLogger(method, path, c.ClientIP(), c.GetHeader("User-Agent"), statusCode, duration)

		if duration > 5*time.Second {
			logger.PerformanceLogger("slow_request", duration.Seconds(), "seconds")
		}
		if statusCode >= 500 {
			logger.SystemLogger("server_error", fmt.Sprintf("Status %d for %s %s", statusCode, method, path))
		}
	}
}

// SecurityMonitoringMiddleware logs requests from known scanners
func SecurityMonitoringMiddleware(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userAgent := c.GetHeader("User-Agent")
		if isScannerUserAgent(userAgent) {
			logger.SecurityLogger("suspicious_user_agent", c.ClientIP(), userAgent, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
		}
		c.Next()
	}
}

var scannerAgents = []string{
	"sqlmap", "nmap", "masscan", "zmap", "dirbuster",
	"gobuster", "nikto", "acunetix", "nessus",
}

func isScannerUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, agent := range scannerAgents {
		if strings.Contains(ua, agent) {
			return true
		}
	}
	return false
}
