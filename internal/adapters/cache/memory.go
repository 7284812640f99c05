package cache

import (
	"context"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// MemoryCache локальный кэш процесса. Используется, когда Redis отключен, и в тестах.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return v.([]byte), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration == 0 {
		expiration = gocache.NoExpiration
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.store.Set(key, buf, expiration)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

// DeleteByPattern понимает glob-шаблоны в стиле Redis SCAN MATCH (*, ?, [...])
func (m *MemoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	for key := range m.store.Items() {
		if ok, _ := path.Match(pattern, key); ok {
			m.store.Delete(key)
		}
	}
	return nil
}

func (m *MemoryCache) Close() error {
	m.store.Flush()
	return nil
}
