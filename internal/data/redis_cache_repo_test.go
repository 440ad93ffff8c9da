package data

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotalabs/viagens-ui/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestRedisCacheRepo_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	err := repo.Set(ctx, "board:sess-1", []byte(`{"trips":[]}`), time.Minute)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "board:sess-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"trips":[]}`), got)
}

func TestRedisCacheRepo_GetMissingKey(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)

	got, err := repo.Get(context.Background(), "board:nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepo_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	err := repo.Set(ctx, "board:short", []byte("v"), 100*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)

	got, err := repo.Get(ctx, "board:short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepo_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "board:gone", []byte("v"), time.Minute))

	removed, err := repo.Delete(ctx, "board:gone")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "board:gone")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRedisCacheRepo_Exists(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "board:absent")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Set(ctx, "board:present", []byte("v"), time.Minute))

	exists, err = repo.Exists(ctx, "board:present")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisCacheRepo_DeleteByPrefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	// Keys under two prefixes; only one prefix should be flushed.
	require.NoError(t, repo.Set(ctx, "session:a", []byte("1"), time.Minute))
	require.NoError(t, repo.Set(ctx, "session:b", []byte("2"), time.Minute))
	require.NoError(t, repo.Set(ctx, "board:a", []byte("3"), time.Minute))

	deleted, err := repo.DeleteByPrefix(ctx, "session:")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	exists, err := repo.Exists(ctx, "board:a")
	require.NoError(t, err)
	assert.True(t, exists)

	// Flushing again finds nothing.
	deleted, err = repo.DeleteByPrefix(ctx, "session:")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRedisCacheRepo_Health(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	assert.NoError(t, repo.Health(context.Background()))
}

func TestRedisCacheRepo_EmptyKeyValidation(t *testing.T) {
	// No live Redis needed: validation runs before any Redis call.
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	err := repo.Set(ctx, "", []byte("value"), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key cannot be empty")

	_, err = repo.Get(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key cannot be empty")

	_, err = repo.Delete(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key cannot be empty")

	_, err = repo.Exists(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key cannot be empty")

	_, err = repo.DeleteByPrefix(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefix cannot be empty")
}
