package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"taskmanager/internal/auth"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// AuthService handles session operations for existing users.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, user *model.User, token string) error
	LogoutAll(ctx context.Context, user *model.User) error
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

// Login checks credentials and issues an additional session token. Every
// failure, including an unknown email, is reported as ErrUnableToLogin.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.ErrorContext(ctx, "login lookup failed", "error", err)
		}
		return nil, "", apperrors.ErrUnableToLogin
	}

	if !CheckPassword(user.PasswordHash, strings.TrimSpace(password)) {
		return nil, "", apperrors.ErrUnableToLogin
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		slog.ErrorContext(ctx, "login token issue failed", "user_id", user.ID, "error", err)
		return nil, "", apperrors.ErrUnableToLogin
	}

	return user, token, nil
}

// Logout revokes only the token used for the current request.
func (s *authService) Logout(ctx context.Context, user *model.User, token string) error {
	return s.tokens.Revoke(ctx, user, token)
}

// LogoutAll revokes every token of the user.
func (s *authService) LogoutAll(ctx context.Context, user *model.User) error {
	return s.tokens.RevokeAll(ctx, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
