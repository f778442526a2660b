package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// TokenService issues session tokens and ties them to the token list stored
// on each user record.
type TokenService struct {
	jwt   *JWTService
	users repository.UserRepository
}

// NewTokenService creates a token service signing with jwt and persisting through users.
func NewTokenService(jwt *JWTService, users repository.UserRepository) *TokenService {
	return &TokenService{jwt: jwt, users: users}
}

// Issue signs a token for user, appends it to the user's token list and persists the user.
func (s *TokenService) Issue(ctx context.Context, user *model.User) (string, error) {
	token, err := s.jwt.Sign(user.ID)
	if err != nil {
		return "", err
	}

	user.Tokens = append(user.Tokens, token)
	if err := s.users.Update(ctx, user); err != nil {
		user.RemoveToken(token)
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Verify checks the token signature and returns the embedded user ID.
func (s *TokenService) Verify(token string) (uuid.UUID, error) {
	return s.jwt.Verify(token)
}

// Resolve returns the user a token belongs to. The token must verify and must
// still be present in that user's token list.
func (s *TokenService) Resolve(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.jwt.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", apperrors.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !user.HasToken(token) {
		return nil, fmt.Errorf("%w: token revoked", apperrors.ErrUnauthenticated)
	}
	return user, nil
}

// Revoke removes a single token from the user's list.
func (s *TokenService) Revoke(ctx context.Context, user *model.User, token string) error {
	user.RemoveToken(token)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAll clears every token of the user.
func (s *TokenService) RevokeAll(ctx context.Context, user *model.User) error {
	user.Tokens = []string{}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}
	return nil
}
