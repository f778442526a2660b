package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/auth"
	"taskmanager/internal/cache"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// Notifier sends account emails without blocking the caller.
type Notifier interface {
	SendWelcome(email, name string)
	SendCancellation(email, name string)
}

// NewUser holds signup input after request validation.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// UserUpdate lists the fields a user may change on their own profile. Nil
// fields are left untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// UserService handles user account operations.
type UserService interface {
	Create(ctx context.Context, in NewUser) (*model.User, string, error)
	Update(ctx context.Context, user *model.User, upd UserUpdate) (*model.User, error)
	Delete(ctx context.Context, user *model.User) error
	SetAvatar(ctx context.Context, user *model.User, filename string, r io.Reader) error
	DeleteAvatar(ctx context.Context, user *model.User) error
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type userService struct {
	users     repository.UserRepository
	tasks     repository.TaskRepository
	tokens    *auth.TokenService
	notifier  Notifier
	cache     *cache.Client
	avatarTTL time.Duration
}

// NewUserService builds a UserService. cache may be nil.
func NewUserService(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	tokens *auth.TokenService,
	notifier Notifier,
	cache *cache.Client,
	avatarTTL time.Duration,
) UserService {
	return &userService{
		users:     users,
		tasks:     tasks,
		tokens:    tokens,
		notifier:  notifier,
		cache:     cache,
		avatarTTL: avatarTTL,
	}
}

func avatarCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("avatar:%s", id.String())
}

// Create registers a user, sends the welcome email and issues the first session token.
func (s *userService) Create(ctx context.Context, in NewUser) (*model.User, string, error) {
	hash, err := HashPassword(strings.TrimSpace(in.Password))
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Age:          in.Age,
		Tokens:       []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", apperrors.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	s.notifier.SendWelcome(user.Email, user.Name)

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Update applies the allowed profile fields and persists the user.
func (s *userService) Update(ctx context.Context, user *model.User, upd UserUpdate) (*model.User, error) {
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		user.Email = normalizeEmail(*upd.Email)
	}
	if upd.Age != nil {
		user.Age = *upd.Age
	}
	if upd.Password != nil {
		hash, err := HashPassword(strings.TrimSpace(*upd.Password))
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, apperrors.ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes the user's tasks, then the user, then sends the cancellation email.
func (s *userService) Delete(ctx context.Context, user *model.User) error {
	if _, err := s.tasks.DeleteByOwner(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user tasks: %w", err)
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, avatarCacheKey(user.ID))
	s.notifier.SendCancellation(user.Email, user.Name)
	return nil
}

// SetAvatar normalizes the uploaded image and stores it on the user.
func (s *userService) SetAvatar(ctx context.Context, user *model.User, filename string, r io.Reader) error {
	png, err := ProcessAvatar(filename, r)
	if err != nil {
		return err
	}

	user.Avatar = png
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}
	_ = s.cache.Delete(ctx, avatarCacheKey(user.ID))
	return nil
}

// DeleteAvatar clears the stored avatar.
func (s *userService) DeleteAvatar(ctx context.Context, user *model.User) error {
	user.Avatar = nil
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("delete avatar: %w", err)
	}
	_ = s.cache.Delete(ctx, avatarCacheKey(user.ID))
	return nil
}

// GetAvatar returns the PNG bytes of a user's avatar, served from cache when possible.
func (s *userService) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if data, _ := s.cache.Get(ctx, avatarCacheKey(id)); data != nil {
		return data, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(user.Avatar) == 0 {
		return nil, apperrors.ErrAvatarNotFound
	}

	_ = s.cache.Set(ctx, avatarCacheKey(id), user.Avatar, s.avatarTTL)
	return user.Avatar, nil
}
