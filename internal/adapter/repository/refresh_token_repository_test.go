package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenRepo(t *testing.T) (*RefreshTokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRefreshTokenRepository(rdb), mr
}

func TestRefreshTokenSaveAndConsume(t *testing.T) {
	repo, mr := newTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "raw-token", "user-1", time.Hour))

	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "raw-token", "tokens must be stored hashed")
	}

	userID, err := repo.Consume(ctx, "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// o token sai do Redis na mesma operação
	_, err = repo.Consume(ctx, "raw-token")
	assert.ErrorIs(t, err, user.ErrTokenNotFound)
	assert.Empty(t, mr.Keys())
}

func TestRefreshTokenConsumedOnce(t *testing.T) {
	repo, _ := newTokenRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "shared", "user-1", time.Hour))

	results := make(chan error, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Consume(ctx, "shared")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, user.ErrTokenNotFound)
	}
	assert.Equal(t, 1, ok)
}

func TestRefreshTokenExpires(t *testing.T) {
	repo, mr := newTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "short", "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Consume(ctx, "short")
	assert.ErrorIs(t, err, user.ErrTokenNotFound)
}

func TestRefreshTokenRevoke(t *testing.T) {
	repo, _ := newTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tok", "user-1", time.Hour))
	require.NoError(t, repo.Revoke(ctx, "tok"))
	require.NoError(t, repo.Revoke(ctx, "tok"), "revoking twice is not an error")

	_, err := repo.Consume(ctx, "tok")
	assert.ErrorIs(t, err, user.ErrTokenNotFound)
}
