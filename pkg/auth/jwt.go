package auth

import (
	"errors"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Erros específicos
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrMissingJWTKey = errors.New("JWT secret is not configured")
)

// TokenType distingue tokens de acesso e de renovação
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// JWTClaims representa as claims personalizadas do token JWT
type JWTClaims struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
	Type   TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair é o par emitido no login e na renovação
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// JWTService assina e valida tokens com segredos separados por tipo
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewJWTService cria uma nova instância de JWTService
func NewJWTService(cfg config.JWTConfig) (*JWTService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrMissingJWTKey
	}
	return &JWTService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessDuration,
		refreshTTL:    cfg.RefreshDuration,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}, nil
}

// RefreshTTL é o tempo de vida dos tokens de renovação
func (s *JWTService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// GeneratePair gera os tokens de acesso e de renovação para o usuário
func (s *JWTService) GeneratePair(u *user.User) (*TokenPair, error) {
	access, accessExp, err := s.sign(u, TokenAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.sign(u, TokenRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *JWTService) sign(u *user.User, typ TokenType, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := JWTClaims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   u.ID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateAccessToken valida um token de acesso e retorna as claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	return s.validate(tokenString, TokenAccess, s.accessSecret)
}

// ValidateRefreshToken valida um token de renovação e retorna as claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return s.validate(tokenString, TokenRefresh, s.refreshSecret)
}

func (s *JWTService) validate(tokenString string, typ TokenType, secret []byte) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Type != typ || claims.UserID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
