// Package response renders the JSON envelopes every service answers with.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parking-lot/internal/core/errs"
)

// ErrorBody is the failure envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Msg renders {"message": msg} plus fields.
func Msg(c *gin.Context, status int, msg string, fields gin.H) {
	body := gin.H{"message": msg}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func OK(c *gin.Context, msg string, fields gin.H) { Msg(c, http.StatusOK, msg, fields) }

func Created(c *gin.Context, msg string, fields gin.H) { Msg(c, http.StatusCreated, msg, fields) }

// Abort stops the chain with an error envelope; used by middleware.
func Abort(c *gin.Context, code int, msg string) {
	if msg == "" {
		msg = msgFor(code)
	}
	c.AbortWithStatusJSON(code, ErrorBody{Message: msg, Error: http.StatusText(code)})
}

// Fail maps err to its status. Messages of untyped errors are not shown to callers;
// the error is attached to the context for the access log instead.
func Fail(c *gin.Context, err error) {
	code := errs.CodeOf(err)
	msg := ""
	var e *errs.Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	if code >= http.StatusInternalServerError || msg == "" {
		_ = c.Error(err)
	}
	Abort(c, code, msg)
}
