package storage

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// memorySession ключи одной сессии; значение в кеше не меняется после записи
type memorySession struct {
	values    map[string][]byte
	updatedAt time.Time
}

// MemoryClientStorage хранит данные сессий в памяти процесса.
// Подходит для локального запуска без PostgreSQL и для тестов.
// Срок хранения отсчитывается от последней записи в сессию, а не в отдельный ключ.
type MemoryClientStorage struct {
	mu    sync.Mutex
	items *gocache.Cache
	now   func() time.Time
}

// NewMemoryClientStorage создает хранилище; ttl=0 означает хранение без срока
func NewMemoryClientStorage(ttl time.Duration) *MemoryClientStorage {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryClientStorage{items: gocache.New(ttl, 10*time.Minute), now: time.Now}
}

func (m *MemoryClientStorage) session(sessionID string) *memorySession {
	v, ok := m.items.Get(sessionID)
	if !ok {
		return nil
	}
	return v.(*memorySession)
}

// write заменяет сессию копией с изменением fn; touch продлевает её срок
func (m *MemoryClientStorage) write(sessionID string, touch bool, fn func(values map[string][]byte)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := &memorySession{values: map[string][]byte{}, updatedAt: m.now()}
	if cur := m.session(sessionID); cur != nil {
		for k, v := range cur.values {
			next.values[k] = v
		}
		if !touch {
			next.updatedAt = cur.updatedAt
		}
	}
	fn(next.values)
	if len(next.values) == 0 {
		m.items.Delete(sessionID)
		return
	}
	m.items.SetDefault(sessionID, next)
}

func (m *MemoryClientStorage) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	if err := validateKey(sessionID, key); err != nil {
		return nil, err
	}
	sess := m.session(sessionID)
	if sess == nil {
		return nil, interfaces.ErrStorageKeyNotFound
	}
	src, ok := sess.values[key]
	if !ok {
		return nil, interfaces.ErrStorageKeyNotFound
	}
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

func (m *MemoryClientStorage) Set(_ context.Context, sessionID, key string, value []byte) error {
	if err := validateKey(sessionID, key); err != nil {
		return err
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.write(sessionID, true, func(values map[string][]byte) { values[key] = buf })
	return nil
}

func (m *MemoryClientStorage) Remove(_ context.Context, sessionID, key string) error {
	if err := validateKey(sessionID, key); err != nil {
		return err
	}
	if m.session(sessionID) == nil {
		return nil
	}
	m.write(sessionID, false, func(values map[string][]byte) { delete(values, key) })
	return nil
}

// PurgeStale удаляет сессии, в которые не писали дольше olderThan; возвращает число ключей
func (m *MemoryClientStorage) PurgeStale(_ context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-olderThan)
	var n int64
	for id, item := range m.items.Items() {
		sess := item.Object.(*memorySession)
		if sess.updatedAt.Before(cutoff) {
			m.items.Delete(id)
			n += int64(len(sess.values))
		}
	}
	return n, nil
}

func (m *MemoryClientStorage) Ping(context.Context) error { return nil }

func (m *MemoryClientStorage) Close() error {
	m.items.Flush()
	return nil
}

var _ interfaces.StoragePort = (*MemoryClientStorage)(nil)
var _ interfaces.StoragePort = (*ClientStorage)(nil)
