package service

import (
	"context"
	"errors"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
)

// AuthResult é o usuário autenticado com o par de tokens emitido
type AuthResult struct {
	User   *user.User
	Tokens *auth.TokenPair
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Refresh troca o token de renovação por um par novo; o antigo é revogado
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (*user.User, error)
}

type authService struct {
	users  user.Repository
	tokens user.RefreshTokenStore
	jwt    *auth.JWTService
	logger logger.Logger
}

// NewAuthService cria uma nova instância de AuthService
func NewAuthService(users user.Repository, tokens user.RefreshTokenStore, jwtService *auth.JWTService, log logger.Logger) AuthService {
	return &authService{users: users, tokens: tokens, jwt: jwtService, logger: log}
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperror.Internal(err)
	}
	if !u.CheckPassword(password) {
		return nil, invalidCredentials()
	}
	if !u.IsActive {
		return nil, apperror.Unauthorized(CodeInactiveUser, "User account is disabled")
	}

	return s.issue(ctx, u)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid refresh token")
	}

	// consumir é atômico: de duas renovações simultâneas só uma leva o token
	owner, err := s.tokens.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, user.ErrTokenNotFound) {
			return nil, apperror.Unauthorized(apperror.CodeInvalidToken, "Refresh token revoked or expired")
		}
		return nil, apperror.Internal(err)
	}
	if owner != claims.UserID {
		return nil, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid refresh token")
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid refresh token")
		}
		return nil, apperror.Internal(err)
	}
	if !u.IsActive {
		return nil, apperror.Unauthorized(CodeInactiveUser, "User account is disabled")
	}

	return s.issue(ctx, u)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return u, nil
}

func (s *authService) issue(ctx context.Context, u *user.User) (*AuthResult, error) {
	pair, err := s.jwt.GeneratePair(u)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := s.tokens.Save(ctx, pair.RefreshToken, u.ID, s.jwt.RefreshTTL()); err != nil {
		return nil, apperror.Internal(err)
	}
	s.logger.Debug("Tokens emitidos", "user_id", u.ID)
	return &AuthResult{User: u, Tokens: pair}, nil
}

func invalidCredentials() *apperror.Error {
	return apperror.Unauthorized(CodeInvalidCredentials, "Invalid email or password")
}
