package cache

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewCacheServiceWithClient(client, zap.NewNop())
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}

func TestSetGetRoundTrip(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", entry{Name: "ada", Count: 3}, time.Minute))

	var got entry
	found, err := svc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Name: "ada", Count: 3}, got)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestGetMissingKey(t *testing.T) {
	svc, _ := newTestCache(t)

	var got entry
	found, err := svc.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetCorruptValue(t *testing.T) {
	svc, mr := newTestCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var got entry
	_, err := svc.Get(context.Background(), "bad", &got)

	var cerr *errors.CacheError
	require.True(t, stderrors.As(err, &cerr))
	assert.Equal(t, "get", cerr.Operation)
}

func TestDelExistsExpire(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", "v", 0))
	exists, err := svc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.Expire(ctx, "k", time.Second))
	mr.FastForward(2 * time.Second)
	exists, err = svc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, svc.Set(ctx, "k2", "v", 0))
	require.NoError(t, svc.Del(ctx, "k2"))
	exists, _ = svc.Exists(ctx, "k2")
	assert.False(t, exists)
}

func TestConnectionFailureIsCacheError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	svc := NewCacheServiceWithClient(client, zap.NewNop())
	defer svc.Close()
	mr.Close()

	assert.False(t, svc.IsConnected(context.Background()))
	err = svc.Set(context.Background(), "k", "v", 0)

	var cerr *errors.CacheError
	assert.True(t, stderrors.As(err, &cerr))
}
