package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Run("without internal error", func(t *testing.T) {
		err := &Error{HTTPStatus: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
		assert.Equal(t, "not_found: resource not found", err.Error())
	})

	t.Run("with internal error", func(t *testing.T) {
		err := &Error{
			HTTPStatus: http.StatusInternalServerError,
			Code:       "internal_error",
			Message:    "something went wrong",
			Internal:   errors.New("connection refused"),
		}
		assert.Equal(t, "internal_error: something went wrong (connection refused)", err.Error())
	})
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrDatabase.WithInternal(cause)
	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestError_With(t *testing.T) {
	base := ErrBadRequest
	derived := base.WithMessage("phoneNumber is required").WithDetails(map[string]any{"field": "phoneNumber"})

	assert.Equal(t, "bad_request", derived.Code)
	assert.Equal(t, "phoneNumber is required", derived.Message)
	assert.Equal(t, "invalid request", base.Message, "With* must not mutate the sentinel")
	assert.Equal(t, "phoneNumber", derived.Details["field"])
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("campaign", "c-123")
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Contains(t, err.Message, "campaign")
	assert.Contains(t, err.Message, "c-123")
}

func TestAsAppError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrConflict)
	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "conflict", appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}
