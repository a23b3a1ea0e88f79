package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"kanban-task-api/internal/models"
	"kanban-task-api/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// APIError is the uniform error body.
type APIError struct {
	Status      int               `json:"status"`
	Message     string            `json:"message"`
	Timestamp   string            `json:"timestamp"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// statusFor maps a failure kind to its HTTP status code.
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// newAPIError renders err. Anything that is not a *service.Error is internal.
func newAPIError(err error) APIError {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = service.NewInternalError(err)
	}

	body := APIError{
		Status:    statusFor(svcErr.Kind),
		Message:   svcErr.Message,
		Timestamp: models.FormatDateTime(time.Now()),
	}
	if svcErr.Kind == service.KindValidation {
		body.FieldErrors = svcErr.Fields
		if body.FieldErrors == nil {
			body.FieldErrors = map[string]string{}
		}
	}
	return body
}

// writeError aborts the request with the translated error body. Internal
// failures are logged since their detail never reaches the client.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	body := newAPIError(err)
	if body.Status == http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	}
	c.AbortWithStatusJSON(body.Status, body)
}

// Recovery renders panics as the internal error body.
func Recovery(logger *log.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", "method", c.Request.Method, "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, newAPIError(errors.New("panic")))
	})
}
