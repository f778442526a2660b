package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when a task does not exist or belongs to someone else.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAvatarNotFound is returned when a user has no stored avatar.
	ErrAvatarNotFound = errors.New("avatar not found")
	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("email is already in use")
	// ErrInvalidUpdates is returned when a partial update names a field outside its allow-list.
	ErrInvalidUpdates = errors.New("invalid updates")
	// ErrUnableToLogin is returned for any failed credential check.
	ErrUnableToLogin = errors.New("unable to login")
	// ErrUnauthenticated is returned when a request carries no usable session token.
	ErrUnauthenticated = errors.New("please authenticate")
	// ErrInvalidImage is returned when an upload is not an accepted image.
	ErrInvalidImage = errors.New("Please upload an image")
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("File too large")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// IsNotFound reports whether err maps to a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrAvatarNotFound)
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Fields = verr.Fields
		return httpErr
	}

	switch {
	case IsNotFound(err):
		return NewHTTPError(http.StatusNotFound, "not found", "NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidUpdates):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidUpdates.Error(), "INVALID_UPDATES")
	case errors.Is(err, ErrUnableToLogin):
		return NewHTTPError(http.StatusBadRequest, ErrUnableToLogin.Error(), "UNABLE_TO_LOGIN")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidImage):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidImage.Error(), "INVALID_IMAGE")
	case errors.Is(err, ErrFileTooLarge):
		return NewHTTPError(http.StatusBadRequest, ErrFileTooLarge.Error(), "FILE_TOO_LARGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
