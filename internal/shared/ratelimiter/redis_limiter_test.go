package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func TestNewRedisLimiter(t *testing.T) {
	client, _ := setupTestRedis(t)

	l := NewRedisLimiter(client, 5, time.Minute, "")
	assert.Equal(t, "login", l.namespace)
	assert.Equal(t, "login:attempts:A@Example.com", l.key("A@Example.com"), "key keeps the exact email")
}

func TestRedisLimiter_BlocksAfterLimit(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	l := NewRedisLimiter(client, 2, time.Minute, "login")

	for i := 0; i < 2; i++ {
		blocked, err := l.Blocked(ctx, "a@example.com")
		require.NoError(t, err)
		assert.False(t, blocked)
		require.NoError(t, l.RecordFailure(ctx, "a@example.com"))
	}

	blocked, err := l.Blocked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, blocked)

	// TTL is set once, on the first failure
	assert.Equal(t, time.Minute, mr.TTL("login:attempts:a@example.com"))

	mr.FastForward(time.Minute)
	blocked, err = l.Blocked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, blocked, "counter should expire with its window")
}

func TestRedisLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	l := NewRedisLimiter(client, 1, time.Minute, "login")

	require.NoError(t, l.RecordFailure(ctx, "k"))
	require.NoError(t, l.Reset(ctx, "k"))

	assert.False(t, mr.Exists("login:attempts:k"))
}

func TestRedisLimiter_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("redis down")

	t.Run("get error is returned", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, 3, time.Minute, "login")

		mock.ExpectGet("login:attempts:k").SetErr(boom)

		_, err := l.Blocked(ctx, "k")
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("incr error skips expire", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, 3, time.Minute, "login")

		mock.ExpectIncr("login:attempts:k").SetErr(boom)

		err := l.RecordFailure(ctx, "k")
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second failure does not reset ttl", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, 3, time.Minute, "login")

		mock.ExpectIncr("login:attempts:k").SetVal(1)
		mock.ExpectExpire("login:attempts:k", time.Minute).SetVal(true)
		mock.ExpectIncr("login:attempts:k").SetVal(2)

		require.NoError(t, l.RecordFailure(ctx, "k"))
		require.NoError(t, l.RecordFailure(ctx, "k"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
