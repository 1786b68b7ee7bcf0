// Package errs carries the application error type shared by services and the HTTP layer.
package errs

import (
	"errors"
	"net/http"
)

// Error pairs a message safe to show to callers with an HTTP status code.
type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Code: http.StatusConflict, Msg: msg} }

// Upstream reports a failed call to another service.
func Upstream(msg string, err error) error {
	return &Error{Code: http.StatusBadGateway, Msg: msg, Err: err}
}

func Unavailable(msg string, err error) error {
	return &Error{Code: http.StatusServiceUnavailable, Msg: msg, Err: err}
}

func Internal(msg string, err error) error {
	return &Error{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// CodeOf returns the status carried by err, 500 for anything else.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}

// Is reports whether err carries the given status.
func Is(err error, code int) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
