package services

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	"github.com/sobirov-market/storefront/pkg/models"
)

// CatalogReader чтение каталога из внешнего REST API
type CatalogReader interface {
	filter.Source
	ListProducts(ctx context.Context, query url.Values) (*models.Page[models.Product], error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, r catalogapi.Resource, query url.Values) (json.RawMessage, error)
}

// AdminBackend CRUD сущностей админки во внешнем REST API
type AdminBackend interface {
	List(ctx context.Context, r catalogapi.Resource, query url.Values) (json.RawMessage, error)
	Get(ctx context.Context, r catalogapi.Resource, id string) (json.RawMessage, error)
	Create(ctx context.Context, r catalogapi.Resource, body json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, r catalogapi.Resource, id string, body json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, r catalogapi.Resource, id string) error
	Exists(ctx context.Context, r catalogapi.Resource, field, value, exceptID string) (bool, error)
}

// OrderBackend прием заказов
type OrderBackend interface {
	CreateOrder(ctx context.Context, order *catalogapi.Order) (json.RawMessage, error)
}

// EventPublisher публикация событий витрины
type EventPublisher interface {
	PublishQuietly(ctx context.Context, eventType, resource, resourceID string, payload interface{})
}

// ImageResolver превращает ключ объекта в ссылку для браузера
type ImageResolver interface {
	ResolveImageURL(ctx context.Context, key string) (string, error)
}
