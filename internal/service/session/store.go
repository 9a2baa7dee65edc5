package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kapu/anti-portfolio-go/internal/constants"
	"github.com/kapu/anti-portfolio-go/internal/service/cache"
)

// Store persists sessions for a bounded time. Implementations must treat a
// missing or expired session as found=false, not as an error.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in a size-bounded LRU with per-entry TTL.
type MemoryStore struct {
	cache *expirable.LRU[string, Session]
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = constants.SessionConfig.DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = constants.SessionConfig.DefaultTTL
	}
	return &MemoryStore{cache: expirable.NewLRU[string, Session](maxEntries, nil, ttl)}
}

func (m *MemoryStore) Put(_ context.Context, s Session) error {
	m.cache.Add(s.ID, s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, bool, error) {
	s, ok := m.cache.Get(id)
	return s, ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

// RedisStore keeps sessions as JSON values under a key prefix, refreshing
// the TTL on every write.
type RedisStore struct {
	cache  *cache.CacheService
	ttl    time.Duration
	prefix string
}

func NewRedisStore(c *cache.CacheService, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = constants.SessionConfig.DefaultTTL
	}
	return &RedisStore{
		cache:  c,
		ttl:    ttl,
		prefix: constants.SessionConfig.KeyPrefix,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Put(ctx context.Context, s Session) error {
	return r.cache.Set(ctx, r.key(s.ID), s, r.ttl)
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, bool, error) {
	var s Session
	found, err := r.cache.Get(ctx, r.key(id), &s)
	if err != nil || !found {
		return Session{}, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Del(ctx, r.key(id))
}
