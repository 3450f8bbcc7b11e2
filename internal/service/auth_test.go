package service

import (
	"context"
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/repository/memory"
	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (AuthService, UserService, *auth.JWTService) {
	t.Helper()
	jwtService, err := auth.NewJWTService(config.JWTConfig{
		AccessSecret:    "test-access",
		RefreshSecret:   "test-refresh",
		AccessDuration:  15 * time.Minute,
		RefreshDuration: time.Hour,
		Issuer:          "reborn-test",
	})
	require.NoError(t, err)

	users := memory.NewUserRepository(memory.NewStore())
	return NewAuthService(users, memory.NewTokenStore(), jwtService, logger.NewNop()), NewUserService(users), jwtService
}

func TestAuthFlow(t *testing.T) {
	ctx := context.Background()
	authSvc, userSvc, jwtService := newAuthFixture(t)

	u, err := userSvc.Create(ctx, CreateUserInput{Email: " Agent@Reborn.tn ", Password: "secret123", FirstName: "Sami", Role: "commercial"})
	require.NoError(t, err)
	assert.Equal(t, "agent@reborn.tn", u.Email)
	assert.Equal(t, user.RoleCommercial, u.Role)

	t.Run("bad credentials", func(t *testing.T) {
		_, err := authSvc.Login(ctx, "agent@reborn.tn", "wrong-pass")
		assert.True(t, apperror.HasCode(err, CodeInvalidCredentials))
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

		_, err = authSvc.Login(ctx, "nobody@reborn.tn", "secret123")
		assert.True(t, apperror.HasCode(err, CodeInvalidCredentials))
	})

	res, err := authSvc.Login(ctx, "AGENT@reborn.tn", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := jwtService.ValidateAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, user.RoleCommercial, claims.Role)

	t.Run("refresh rotates the token", func(t *testing.T) {
		rotated, err := authSvc.Refresh(ctx, res.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, res.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

		_, err = authSvc.Refresh(ctx, res.Tokens.RefreshToken)
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

		require.NoError(t, authSvc.Logout(ctx, rotated.Tokens.RefreshToken))
		_, err = authSvc.Refresh(ctx, rotated.Tokens.RefreshToken)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidToken))
	})

	t.Run("concurrent refreshes rotate once", func(t *testing.T) {
		fresh, err := authSvc.Login(ctx, "agent@reborn.tn", "secret123")
		require.NoError(t, err)

		errs := runConcurrently(5, func() error {
			_, err := authSvc.Refresh(ctx, fresh.Tokens.RefreshToken)
			return err
		})

		var ok int
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidToken))
		}
		assert.Equal(t, 1, ok)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := authSvc.Refresh(ctx, res.Tokens.AccessToken)
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("me", func(t *testing.T) {
		me, err := authSvc.Me(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sami", me.FirstName)
	})

	t.Run("inactive users cannot log in", func(t *testing.T) {
		inactive := false
		_, err := userSvc.Update(ctx, u.ID, UpdateUserInput{IsActive: &inactive})
		require.NoError(t, err)

		_, err = authSvc.Login(ctx, "agent@reborn.tn", "secret123")
		assert.True(t, apperror.HasCode(err, CodeInactiveUser))
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newAuthFixture(t)

	u, err := svc.Create(ctx, CreateUserInput{Email: "driver@reborn.tn", Password: "secret123", Role: "DELIVERY"})
	require.NoError(t, err)

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserInput{Email: "x@reborn.tn", Password: "123", Role: "ADMIN"})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Equal(t, "password", appErr.Details[0].Field)

		_, err = svc.Create(ctx, CreateUserInput{Email: "x@reborn.tn", Password: "secret123", Role: "ROOT"})
		appErr, _ = apperror.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "role", appErr.Details[0].Field)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserInput{Email: "DRIVER@reborn.tn", Password: "secret123"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("list by role", func(t *testing.T) {
		page, err := svc.List(ctx, UserQuery{Role: "delivery"})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)

		_, err = svc.List(ctx, UserQuery{Role: "boss"})
		assert.True(t, apperror.HasCode(err, CodeInvalidRole))
	})

	t.Run("cannot delete self", func(t *testing.T) {
		err := svc.Delete(ctx, user.Actor{ID: u.ID, Role: user.RoleAdmin}, u.ID)
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin, u.ID))
		_, err := svc.Get(ctx, u.ID)
		assert.True(t, apperror.HasCode(err, CodeUserNotFound))
	})
}
