package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/api/internal/platform/validation"
)

const internalMessage = "internal server error"

// Error is an API failure with the status it maps to. Err is the cause, kept
// for logging.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Internal keeps the cause's message when it has one.
func Internal(err error) *Error {
	msg := internalMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// Internalf builds an internal error with a fixed message around cause.
func Internalf(cause error, format string, args ...any) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Classify maps any handler error to a status and envelope.
func Classify(err error) (int, Envelope) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, Envelope{Error: "validation failed", Details: []validation.Error(verrs)}
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, Envelope{Error: apiErr.Message}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, Envelope{Error: msg}
	}

	return http.StatusInternalServerError, Envelope{Error: internalMessage}
}

// ErrorHandler is installed as echo's HTTPErrorHandler. It is the only place
// failure responses are written, and it never writes twice.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, env := Classify(err)
		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", status).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, env)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
