package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/14kear/livepoll/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
)

const internalMessage = "internal server error"

// Envelope is the body of every REST response.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func Fail(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Message:   message,
		Error:     http.StatusText(status),
		Code:      code,
		Timestamp: time.Now().UTC(),
	})
}

// Err writes err with the status its kind maps to. Errors that are not
// services.Error never reach the client; they become a generic 500.
func Err(c *gin.Context, err error) {
	status, code := StatusOf(err)

	var svcErr *services.Error
	if status == http.StatusInternalServerError || !errors.As(err, &svcErr) {
		Fail(c, http.StatusInternalServerError, internalMessage, CodeInternal)
		return
	}

	Fail(c, status, svcErr.Msg, code)
}

// ErrWithStatus is Err with an explicit status for errors whose kind alone
// does not decide it.
func ErrWithStatus(c *gin.Context, status int, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		Err(c, err)
		return
	}

	_, code := StatusOf(err)
	Fail(c, status, svcErr.Msg, code)
}

func StatusOf(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
