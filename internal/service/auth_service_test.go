package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/auth"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/mocks"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

func newTestTokenService(users repository.UserRepository) *auth.TokenService {
	return auth.NewTokenService(auth.NewJWTService("test-secret", 0), users)
}

func newTestUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Name:         "Mike",
		Email:        "mike@example.com",
		PasswordHash: hash,
		Tokens:       []string{"existing"},
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	svc := NewAuthService(users, newTestTokenService(users))
	user := newTestUser(t, "56what!!")

	users.On("FindByEmail", ctx, "mike@example.com").Return(user, nil)
	users.On("Update", ctx, user).Return(nil)

	got, token, err := svc.Login(ctx, "  Mike@Example.com ", "56what!!")

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, []string{"existing", token}, got.Tokens)
	users.AssertExpectations(t)
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		svc := NewAuthService(users, newTestTokenService(users))
		users.On("FindByEmail", ctx, "mike@example.com").Return(newTestUser(t, "56what!!"), nil)

		user, token, err := svc.Login(ctx, "mike@example.com", "wrong-password")

		assert.ErrorIs(t, err, apperrors.ErrUnableToLogin)
		assert.Nil(t, user)
		assert.Empty(t, token)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		svc := NewAuthService(users, newTestTokenService(users))
		users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)

		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever1")

		assert.ErrorIs(t, err, apperrors.ErrUnableToLogin)
	})

	t.Run("storage failure", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		svc := NewAuthService(users, newTestTokenService(users))
		users.On("FindByEmail", ctx, "mike@example.com").Return(nil, errors.New("connection refused"))

		_, _, err := svc.Login(ctx, "mike@example.com", "56what!!")

		assert.ErrorIs(t, err, apperrors.ErrUnableToLogin)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	svc := NewAuthService(users, newTestTokenService(users))
	user := &model.User{ID: uuid.New(), Tokens: []string{"phone", "laptop"}}

	users.On("Update", ctx, user).Return(nil)

	require.NoError(t, svc.Logout(ctx, user, "phone"))
	assert.Equal(t, []string{"laptop"}, user.Tokens)

	require.NoError(t, svc.LogoutAll(ctx, user))
	assert.Empty(t, user.Tokens)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("MyPass777!")
	require.NoError(t, err)

	assert.NotEqual(t, "MyPass777!", hash)
	assert.True(t, CheckPassword(hash, "MyPass777!"))
	assert.False(t, CheckPassword(hash, "MyPass777"))
	assert.False(t, CheckPassword("not-a-hash", "MyPass777!"))
}
