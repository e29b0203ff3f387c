package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/open-builders/giveaway-engine/internal/common/logger"
)

// query parameters that carry signed credentials
var redactedParams = []string{initDataQueryParam, "hash"}

// Logger writes one access line per request. Signed init data never reaches
// the log.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		if id, ok := UserID(c); ok {
			event = event.Int64("user_id", id)
		}
		event.
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", redactedPath(c.Request.URL)).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("Request processed")
	}
}

func redactedPath(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	q := u.Query()
	for _, key := range redactedParams {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	return u.Path + "?" + q.Encode()
}
