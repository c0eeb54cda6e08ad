package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nzbgetcom/webconf/pkg/config"
	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/snapshot"
)

// Common error messages (generic to avoid information leakage)
const (
	ErrAuthentication  = "authentication failed"
	ErrNotFound        = "resource not found"
	ErrBadRequest      = "invalid request"
	ErrInternalServer  = "internal server error"
	ErrValidation      = "validation failed"
	ErrRateLimit       = "rate limit exceeded"
	ErrInvalidInput    = "invalid input"
	ErrOperationFailed = "operation failed"
	ErrNoChanges       = "no changes to commit"
	ErrNotLoaded       = "configuration not loaded"
)

// RespondWithError sends a generic error response and logs the detailed error
func RespondWithError(c *gin.Context, statusCode int, genericMessage string, detailedError error) {
	// Log the detailed error for debugging (not sent to client)
	if detailedError != nil {
		logger.Error("Request error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"status", statusCode,
			"error", detailedError.Error(),
			"client_ip", c.ClientIP())
	}

	// Send generic error to client
	c.JSON(statusCode, gin.H{
		"error": genericMessage,
	})
}

// StatusFor maps domain errors to an HTTP status and a generic message
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, schema.ErrUnknownOption), errors.Is(err, schema.ErrNoInstance),
		errors.Is(err, config.ErrUnknownSection), errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound, ErrNotFound
	case errors.Is(err, schema.ErrInvalidValue):
		return http.StatusBadRequest, ErrValidation
	case errors.Is(err, schema.ErrNotRepeatable):
		return http.StatusBadRequest, ErrBadRequest
	case errors.Is(err, config.ErrNoChanges):
		return http.StatusConflict, ErrNoChanges
	case errors.Is(err, config.ErrNotLoaded):
		return http.StatusServiceUnavailable, ErrNotLoaded
	default:
		return http.StatusInternalServerError, ErrOperationFailed
	}
}

// Respond picks the status for err and responds with it. Validation
// failures carry their message since they describe the client's own input.
func Respond(c *gin.Context, err error) {
	status, message := StatusFor(err)
	if errors.Is(err, schema.ErrInvalidValue) {
		logger.Warn("Validation failed", "path", c.Request.URL.Path, "error", err.Error())
		c.JSON(status, gin.H{"error": message, "details": err.Error()})
		return
	}
	RespondWithError(c, status, message, err)
}

// Convenience functions for common error scenarios

func BadRequest(c *gin.Context, err error) {
	RespondWithError(c, http.StatusBadRequest, ErrBadRequest, err)
}

func Unauthorized(c *gin.Context, err error) {
	RespondWithError(c, http.StatusUnauthorized, ErrAuthentication, err)
}

func InternalServerError(c *gin.Context, err error) {
	RespondWithError(c, http.StatusInternalServerError, ErrInternalServer, err)
}
