package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sobirov-market/storefront/internal/utils"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/tx"
)

// ClientStorage серверное хранилище клиентских данных сессии (корзина, избранное, язык)
type ClientStorage struct {
	pool *pgxpool.Pool
}

// NewClientStorage создает хранилище поверх готового пула
func NewClientStorage(ctx context.Context, pool *pgxpool.Pool) (*ClientStorage, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &ClientStorage{pool: pool}, nil
}

type executor interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// getExecutor возвращает исполнителя запросов (транзакцию из контекста или пул)
func (s *ClientStorage) getExecutor(ctx context.Context) executor {
	if t, ok := tx.FromContext(ctx); ok {
		return t
	}
	return s.pool
}

func validateKey(sessionID, key string) error {
	if sessionID == "" {
		return utils.ErrEmptySessionID
	}
	if key == "" {
		return utils.ErrEmptyKey
	}
	return nil
}

// Get возвращает значение ключа сессии
func (s *ClientStorage) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	if err := validateKey(sessionID, key); err != nil {
		return nil, err
	}

	query := `
		SELECT value
		FROM storefront.client_storage
		WHERE session_id = $1 AND key = $2
	`

	var value string
	err := s.getExecutor(ctx).QueryRow(ctx, query, sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrStorageKeyNotFound
		}
		return nil, fmt.Errorf("failed to get client storage key %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set перезаписывает значение ключа целиком
func (s *ClientStorage) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if err := validateKey(sessionID, key); err != nil {
		return err
	}

	query := `
		INSERT INTO storefront.client_storage (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.getExecutor(ctx).Exec(ctx, query, sessionID, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set client storage key %s: %w", key, err)
	}
	return nil
}

// Remove удаляет ключ сессии
func (s *ClientStorage) Remove(ctx context.Context, sessionID, key string) error {
	if err := validateKey(sessionID, key); err != nil {
		return err
	}

	query := `DELETE FROM storefront.client_storage WHERE session_id = $1 AND key = $2`
	if _, err := s.getExecutor(ctx).Exec(ctx, query, sessionID, key); err != nil {
		return fmt.Errorf("failed to remove client storage key %s: %w", key, err)
	}
	return nil
}

// purgeStaleQuery удаляет сессию целиком, только если ни один её ключ не менялся после $1
const purgeStaleQuery = `
	DELETE FROM storefront.client_storage
	WHERE session_id IN (
		SELECT session_id
		FROM storefront.client_storage
		GROUP BY session_id
		HAVING max(updated_at) < $1
	)
`

// PurgeStale удаляет данные сессий, которые не менялись дольше olderThan
func (s *ClientStorage) PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := s.getExecutor(ctx).Exec(ctx, purgeStaleQuery, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping проверяет соединение с БД
func (s *ClientStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close закрывает соединение с БД
func (s *ClientStorage) Close() error {
	s.pool.Close()
	return nil
}
