package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an error with an HTTP status and a short message for the client.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func NewError(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

func BadRequest(detail string) *Error   { return NewError(http.StatusBadRequest, detail) }
func Unauthorized(detail string) *Error { return NewError(http.StatusUnauthorized, detail) }
func Forbidden(detail string) *Error    { return NewError(http.StatusForbidden, detail) }
func NotFound(detail string) *Error     { return NewError(http.StatusNotFound, detail) }
func Conflict(detail string) *Error     { return NewError(http.StatusConflict, detail) }
func Internal(detail string) *Error     { return NewError(http.StatusInternalServerError, detail) }

// Abort writes err as {"detail": ...} and stops the handler chain.
// Errors that are not an *Error become a logged 500.
func Abort(c *gin.Context, err error) {
	var he *Error
	if !errors.As(err, &he) {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		he = Internal(http.StatusText(http.StatusInternalServerError))
	}
	for k, v := range headersFor(he) {
		c.Header(k, v)
	}
	c.AbortWithStatusJSON(he.Status, gin.H{"detail": he.Detail})
}

func headersFor(e *Error) map[string]string {
	if e.Status == http.StatusUnauthorized {
		return map[string]string{"WWW-Authenticate": "Bearer"}
	}
	return nil
}
