package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_SignAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	userID := uuid.New()

	token, err := svc.Sign(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_TokensAreDistinct(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	userID := uuid.New()

	first, err := svc.Sign(userID)
	require.NoError(t, err)
	second, err := svc.Sign(userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTService_NoExpiryWithoutTTL(t *testing.T) {
	svc := NewJWTService("test-secret", 0)

	token, err := svc.Sign(uuid.New())
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_Verify_Rejects(t *testing.T) {
	userID := uuid.New()
	svc := NewJWTService("test-secret", 0)
	valid, err := svc.Sign(userID)
	require.NoError(t, err)

	other := NewJWTService("another-secret", 0)
	foreign, err := other.Sign(userID)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: userID.String()})
	hs512Token, err := hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "not-a-uuid"})
	badSubjectToken, err := badSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", foreign},
		{"malformed", "not.a.token"},
		{"empty", ""},
		{"tampered", valid + "x"},
		{"other algorithm", hs512Token},
		{"subject not a uuid", badSubjectToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTService_Verify_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Sign(uuid.New())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
