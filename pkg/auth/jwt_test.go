package auth

import (
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	s, err := NewJWTService(config.JWTConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessDuration:  15 * time.Minute,
		RefreshDuration: 7 * 24 * time.Hour,
		Issuer:          "reborn-test",
	})
	require.NoError(t, err)
	return s
}

var testUser = &user.User{ID: "0b7e6f0e-5a55-4a43-9d64-0e0c1c7f9a10", Email: "agent@reborn.tn", Role: user.RoleDelivery}

func TestNewJWTServiceRequiresSecrets(t *testing.T) {
	_, err := NewJWTService(config.JWTConfig{AccessSecret: "a"})
	assert.ErrorIs(t, err, ErrMissingJWTKey)
}

func TestGeneratePair(t *testing.T) {
	s := newTestJWTService(t)

	pair, err := s.GeneratePair(testUser)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	access, err := s.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, access.UserID)
	assert.Equal(t, testUser.Email, access.Email)
	assert.Equal(t, user.RoleDelivery, access.Role)
	assert.Equal(t, TokenAccess, access.Type)
	assert.Equal(t, "reborn-test", access.Issuer)

	refresh, err := s.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, refresh.Type)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	s := newTestJWTService(t)
	pair, err := s.GeneratePair(testUser)
	require.NoError(t, err)

	_, err = s.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)

	_, err = s.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	s := newTestJWTService(t)
	issued := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issued }

	pair, err := s.GeneratePair(testUser)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	// o refresh de 7 dias continua válido
	_, err = s.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestTamperedToken(t *testing.T) {
	s := newTestJWTService(t)
	other, err := NewJWTService(config.JWTConfig{AccessSecret: "other", RefreshSecret: "other-refresh", AccessDuration: time.Minute})
	require.NoError(t, err)

	pair, err := other.GeneratePair(testUser)
	require.NoError(t, err)

	_, err = s.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
