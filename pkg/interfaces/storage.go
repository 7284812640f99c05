package interfaces

import (
	"context"
	"errors"
)

// ErrStorageKeyNotFound возвращается, когда в клиентском хранилище нет ключа
var ErrStorageKeyNotFound = errors.New("storage key not found")

// ClientStoragePort определяет постоянное key/value хранилище клиентской сессии.
// Это серверный аналог localStorage браузера: ключи "cart", "favorites", "language".
type ClientStoragePort interface {
	// Get возвращает сохраненное значение или ErrStorageKeyNotFound
	Get(ctx context.Context, sessionID, key string) ([]byte, error)

	// Set перезаписывает значение целиком (last write wins)
	Set(ctx context.Context, sessionID, key string, value []byte) error

	// Remove удаляет ключ; отсутствие ключа не является ошибкой
	Remove(ctx context.Context, sessionID, key string) error
}

// StoragePort определяет интерфейс для работы с постоянным хранилищем данных
type StoragePort interface {
	ClientStoragePort

	// Ping проверяет соединение с хранилищем
	Ping(ctx context.Context) error

	// Close закрывает соединение с хранилищем
	Close() error
}
