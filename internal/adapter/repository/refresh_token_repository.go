package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/redis/go-redis/v9"
)

const refreshTokenPrefix = "auth:refresh:"

// RefreshTokenRepository guarda refresh tokens no Redis. A chave é o hash
// SHA-256 do token e o TTL do Redis cuida da expiração.
type RefreshTokenRepository struct {
	rdb redis.UniversalClient
}

// NewRefreshTokenRepository cria uma nova instância de RefreshTokenRepository
func NewRefreshTokenRepository(rdb redis.UniversalClient) *RefreshTokenRepository {
	return &RefreshTokenRepository{rdb: rdb}
}

// Save implementa user.RefreshTokenStore.Save
func (r *RefreshTokenRepository) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, refreshTokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Consume implementa user.RefreshTokenStore.Consume com GETDEL
func (r *RefreshTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	userID, err := r.rdb.GetDel(ctx, refreshTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", user.ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	return userID, nil
}

// Revoke implementa user.RefreshTokenStore.Revoke
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, refreshTokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func refreshTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return refreshTokenPrefix + hex.EncodeToString(sum[:])
}
