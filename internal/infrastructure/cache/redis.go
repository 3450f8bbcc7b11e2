package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient abre o cliente Redis e verifica a conexão
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
