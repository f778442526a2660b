package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
)

// Request-scoped keys set by Middleware.
const (
	UserContextKey  = "user"
	TokenContextKey = "token"
)

// TokenResolver maps a raw bearer token to the user it authenticates.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Middleware authenticates requests carrying "Authorization: Bearer <token>".
// On success the resolved user and raw token are stored on the echo context;
// on any failure the request ends with 401 and the handler never runs.
func Middleware(resolver TokenResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  UserContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			user, err := resolver.Resolve(c.Request().Context(), raw)
			if err != nil {
				if !errors.Is(err, apperrors.ErrUnauthenticated) {
					slog.WarnContext(c.Request().Context(), "resolve session token", "error", err)
				}
				return nil, err
			}
			c.Set(TokenContextKey, raw)
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			slog.DebugContext(c.Request().Context(), "authentication rejected", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrUnauthenticated.Error(),
				Code:  "UNAUTHENTICATED",
			})
		},
	})
}

// CurrentUser returns the user attached by Middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(UserContextKey).(*model.User)
	return user, ok && user != nil
}

// CurrentToken returns the raw bearer token attached by Middleware.
func CurrentToken(c echo.Context) string {
	token, _ := c.Get(TokenContextKey).(string)
	return token
}
