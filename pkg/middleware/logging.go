package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nzbgetcom/webconf/pkg/audit"
	"github.com/nzbgetcom/webconf/pkg/logger"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

// Username returns the basic-auth user of the request, or "anonymous"
func Username(c *gin.Context) string {
	if user := c.GetString(gin.AuthUserKey); user != "" {
		return user
	}
	return "anonymous"
}

// RequestLoggingMiddleware logs all HTTP requests and attaches the caller
// to the request context for audit entries.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		startTime := time.Now()

		method := c.Request.Method
		path := c.Request.URL.Path
		queryParams := c.Request.URL.RawQuery
		clientIP := c.ClientIP()

		c.Next()

		duration := time.Since(startTime)
		statusCode := c.Writer.Status()

		logFields := []interface{}{
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP,
			"user_agent", c.Request.UserAgent(),
			"username", Username(c),
			"response_size", c.Writer.Size(),
		}

		if queryParams != "" {
			logFields = append(logFields, "query", queryParams)
		}

		if statusCode >= 500 {
			logger.Error("HTTP request failed", logFields...)
		} else if statusCode >= 400 {
			logger.Warn("HTTP request client error", logFields...)
		} else {
			logger.Info("HTTP request", logFields...)
		}
	}
}

// AuditContextMiddleware stores the caller's name and IP in the request
// context. It must run after authentication.
func AuditContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithUser(c.Request.Context(), Username(c))
		ctx = audit.WithIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
