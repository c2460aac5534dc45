package middleware

import (
	"expvar"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	requestsTotal    = expvar.NewInt("http_requests_total")
	requestsByStatus = expvar.NewMap("http_requests_by_status")
)

// AccessLog counts every request in expvar and, when enabled, writes one
// logrus entry per request.
func AccessLog(logger *logrus.Logger, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		requestsTotal.Add(1)
		requestsByStatus.Add(strconv.Itoa(status), 1)

		if !enabled || logger == nil {
			return
		}
		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": RequestID(c),
			"ip":         c.GetString("real_ip"),
		})
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
