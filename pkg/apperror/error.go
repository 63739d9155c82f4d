// Package apperror defines the application's error taxonomy and the Echo
// error handler that renders it as {success:false, error, message}.
package apperror

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/logger"
)

// Error is an application error carrying an HTTP status and a stable,
// machine-readable code.
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
	Internal   error
	Details    map[string]any
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Internal }

// WithInternal attaches an internal (non-user-facing) cause.
func (e *Error) WithInternal(err error) *Error {
	cp := *e
	cp.Internal = err
	return &cp
}

// WithMessage overrides the human-readable message.
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// WithDetails attaches structured detail fields (e.g. validation failures).
func (e *Error) WithDetails(details map[string]any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// New creates a bare application error.
func New(status int, code, message string) *Error {
	return &Error{HTTPStatus: status, Code: code, Message: message}
}

// Sentinels covering the error kinds the API surface returns.
var (
	ErrUnauthorized = New(http.StatusUnauthorized, "unauthorized", "authentication required")
	ErrInvalidToken = New(http.StatusUnauthorized, "invalid_token", "invalid or expired token")

	ErrForbidden = New(http.StatusForbidden, "forbidden", "access denied")

	ErrNotFound = New(http.StatusNotFound, "not_found", "resource not found")
	ErrConflict = New(http.StatusConflict, "conflict", "resource already exists")

	ErrBadRequest   = New(http.StatusBadRequest, "bad_request", "invalid request")
	ErrValidation   = New(http.StatusUnprocessableEntity, "validation_error", "validation failed")
	ErrPrecondition = New(http.StatusBadRequest, "precondition_failed", "precondition not met")

	ErrTelephonyTransient = New(http.StatusBadGateway, "telephony_transient", "telephony fabric call failed transiently")
	ErrTelephonyPermanent = New(http.StatusBadGateway, "telephony_permanent", "telephony fabric call failed permanently")
	ErrTimeout            = New(http.StatusGatewayTimeout, "timeout", "operation timed out")

	ErrInternal = New(http.StatusInternalServerError, "internal_error", "an internal error occurred")
	ErrDatabase = New(http.StatusInternalServerError, "database_error", "database operation failed")
)

// NewNotFound builds a NotFound error naming the resource type and id.
// Used for both genuinely-missing resources and cross-tenant access,
// which must look identical to the caller: never leak existence via 403.
func NewNotFound(resourceType, id string) *Error {
	return ErrNotFound.WithMessage(fmt.Sprintf("%s %q not found", resourceType, id))
}

// NewBadRequest builds a BadRequest error with a specific message.
func NewBadRequest(message string) *Error {
	return ErrBadRequest.WithMessage(message)
}

// NewPrecondition builds a Precondition error with a specific message
// (e.g. "campaign active", "missing trunk").
func NewPrecondition(message string) *Error {
	return ErrPrecondition.WithMessage(message)
}

// AsAppError unwraps err into an *Error if possible.
func AsAppError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPErrorHandler renders any error (app or otherwise) into Echo's
// {success:false, error:<code>, message, details?} envelope.
func HTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := map[string]any{
			"success": false,
			"error":   "internal_error",
			"message": "an internal error occurred",
		}

		var appErr *Error
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.HTTPStatus
			body["error"] = appErr.Code
			body["message"] = appErr.Message
			if len(appErr.Details) > 0 {
				body["details"] = appErr.Details
			}
		case errors.As(err, &echoErr):
			status = echoErr.Code
			body["error"] = http.StatusText(status)
			body["message"] = fmt.Sprint(echoErr.Message)
		default:
			log.Error("unhandled error", logger.Error(err), slog.String("path", c.Request().URL.Path))
		}

		if status >= 500 {
			log.Error("request error", logger.Error(err), slog.Int("status", status))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
