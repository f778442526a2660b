package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedKind string
	}{
		{"task not found", ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped user not found", fmt.Errorf("load user: %w", ErrUserNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"avatar not found", ErrAvatarNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"email taken", ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
		{"invalid updates", ErrInvalidUpdates, http.StatusBadRequest, "INVALID_UPDATES"},
		{"unable to login", ErrUnableToLogin, http.StatusBadRequest, "UNABLE_TO_LOGIN"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"invalid image", ErrInvalidImage, http.StatusBadRequest, "INVALID_IMAGE"},
		{"file too large", ErrFileTooLarge, http.StatusBadRequest, "FILE_TOO_LARGE"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedCode, httpErr.StatusCode)
			assert.Equal(t, tt.expectedKind, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_ValidationCarriesFields(t *testing.T) {
	err := fmt.Errorf("create user: %w", &ValidationError{Fields: map[string]string{
		"email":    "must be a valid email",
		"password": "is required",
	}})

	httpErr := MapErrorToHTTP(err)
	resp := httpErr.ToErrorResponse()

	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, "must be a valid email", resp.Fields["email"])
	assert.Equal(t, "is required", resp.Fields["password"])
}

func TestValidationError_ErrorIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one, b: two", err.Error())
}
