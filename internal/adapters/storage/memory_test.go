package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sobirov-market/storefront/internal/utils"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClientStorage_SessionsIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryClientStorage(0)

	require.NoError(t, s.Set(ctx, "a", "cart", []byte(`[{"id":"1"}]`)))

	got, err := s.Get(ctx, "a", "cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))

	_, err = s.Get(ctx, "b", "cart")
	assert.ErrorIs(t, err, interfaces.ErrStorageKeyNotFound)
}

func TestMemoryClientStorage_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryClientStorage(0)

	require.NoError(t, s.Set(ctx, "a", "language", []byte("uz")))
	require.NoError(t, s.Set(ctx, "a", "language", []byte("ru")))

	got, err := s.Get(ctx, "a", "language")
	require.NoError(t, err)
	assert.Equal(t, "ru", string(got))

	require.NoError(t, s.Remove(ctx, "a", "language"))
	require.NoError(t, s.Remove(ctx, "a", "language"))
	_, err = s.Get(ctx, "a", "language")
	assert.ErrorIs(t, err, interfaces.ErrStorageKeyNotFound)
}

func TestMemoryClientStorage_Validation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryClientStorage(0)

	assert.ErrorIs(t, s.Set(ctx, "", "cart", nil), utils.ErrEmptySessionID)
	_, err := s.Get(ctx, "a", "")
	assert.ErrorIs(t, err, utils.ErrEmptyKey)
}

func TestMemoryClientStorage_PurgeStaleBySession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryClientStorage(0)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "active", "cart", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "idle", "cart", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "idle", "favorites", []byte(`[]`)))

	now = now.Add(2 * time.Hour)
	require.NoError(t, s.Set(ctx, "active", "language", []byte("ru")))
	require.NoError(t, s.Remove(ctx, "idle", "favorites"))

	n, err := s.PurgeStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// старый ключ активной сессии остается вместе с ней
	_, err = s.Get(ctx, "active", "cart")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "active", "language")
	assert.NoError(t, err)

	_, err = s.Get(ctx, "idle", "cart")
	assert.ErrorIs(t, err, interfaces.ErrStorageKeyNotFound)
}

func TestPurgeStaleQuery_GroupsBySession(t *testing.T) {
	q := strings.Join(strings.Fields(purgeStaleQuery), " ")
	assert.Contains(t, q, "WHERE session_id IN (")
	assert.Contains(t, q, "GROUP BY session_id HAVING max(updated_at) < $1")
	assert.NotContains(t, q, "WHERE updated_at <")
}
