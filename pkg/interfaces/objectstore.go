package interfaces

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound возвращается, когда объекта нет в бакете
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo описывает объект в S3-совместимом хранилище
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag,omitempty"`
}

// ObjectPage страница результатов листинга
type ObjectPage struct {
	Objects   []ObjectInfo `json:"objects"`
	NextToken string       `json:"next_token,omitempty"`
	Truncated bool         `json:"truncated"`
}

// ObjectStorePort определяет интерфейс объектного хранилища для медиа-галереи
type ObjectStorePort interface {
	// List возвращает объекты с префиксом prefix, начиная с token
	List(ctx context.Context, prefix, token string, limit int32) (*ObjectPage, error)

	// Put загружает объект с публичным доступом на чтение
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete удаляет объект
	Delete(ctx context.Context, key string) error

	// PresignGet возвращает подписанную ссылку на чтение объекта
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
