package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskmanager/internal/auth"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
)

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
	Error: "invalid request body",
	Code:  "INVALID_REQUEST",
})

// respondError renders err. Not-found is an empty 404. Unexpected errors are
// logged and rendered with fallbackStatus, which is 500 unless the route
// reports storage failures as client errors.
func respondError(c echo.Context, err error, fallbackStatus int) error {
	httpErr := apperrors.MapErrorToHTTP(err)

	switch httpErr.StatusCode {
	case http.StatusNotFound:
		return c.NoContent(http.StatusNotFound)
	case http.StatusInternalServerError:
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		if fallbackStatus != http.StatusInternalServerError {
			return echo.NewHTTPError(fallbackStatus, apperrors.ErrorResponse{
				Error: "unable to process request",
				Code:  "REQUEST_FAILED",
			})
		}
	}

	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// decodeUpdate decodes a partial update body into dst. Keys must match one
// of allowed exactly, otherwise the update fails with ErrInvalidUpdates. An
// empty body is an empty update.
func decodeUpdate(c echo.Context, dst interface{}, allowed ...string) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errInvalidBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return errInvalidBody
	}
	for key := range fields {
		if !slices.Contains(allowed, key) {
			return respondError(c, apperrors.ErrInvalidUpdates, http.StatusBadRequest)
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// currentUser returns the authenticated user or a 401 error.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return nil, respondError(c, apperrors.ErrUnauthenticated, http.StatusInternalServerError)
	}
	return user, nil
}

// parseID reads a UUID path parameter. Malformed ids cannot match any record.
func parseID(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
