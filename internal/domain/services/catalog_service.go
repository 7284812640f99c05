package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownContent = errors.New("unknown content type")
)

// CatalogPattern шаблон всех закэшированных ответов каталога
const CatalogPattern = "catalog:*"

// CatalogService чтение каталога для витрины с кэшированием в Redis
type CatalogService struct {
	api      CatalogReader
	loader   *filter.Loader
	cache    interfaces.CachePort
	ttl      time.Duration
	resolver ImageResolver
	logger   interfaces.LoggerPort
}

// NewCatalogService создает сервис; cache и resolver могут быть nil
func NewCatalogService(api CatalogReader, loader *filter.Loader, cache interfaces.CachePort, ttl time.Duration, resolver ImageResolver, logger interfaces.LoggerPort) *CatalogService {
	return &CatalogService{api: api, loader: loader, cache: cache, ttl: ttl, resolver: resolver, logger: logger}
}

// Categories дерево категорий: корни с заполненными подкатегориями
func (s *CatalogService) Categories(ctx context.Context) []*models.Category {
	nested := s.loader.LoadTree(ctx).Nested()
	for _, c := range nested {
		s.resolveCategory(ctx, c)
	}
	return nested
}

// Brands список брендов
func (s *CatalogService) Brands(ctx context.Context) []models.Brand {
	brands := s.loader.LoadBrands(ctx)
	for i := range brands {
		brands[i].Image = s.resolve(ctx, brands[i].Image)
	}
	return brands
}

// Products страница товаров по параметрам внешнего API
func (s *CatalogService) Products(ctx context.Context, query url.Values) (*models.Page[models.Product], error) {
	key := "catalog:products:" + query.Encode()

	res := &models.Page[models.Product]{}
	if !s.readCache(ctx, key, res) {
		var err error
		res, err = s.api.ListProducts(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения товаров: %w", err)
		}
		s.writeCache(ctx, key, res)
	}

	for i := range res.Data {
		s.resolveProduct(ctx, &res.Data[i])
	}
	return res, nil
}

// Product товар по id
func (s *CatalogService) Product(ctx context.Context, id string) (*models.Product, error) {
	key := "catalog:product:" + id

	var p models.Product
	if !s.readCache(ctx, key, &p) {
		res, err := s.api.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, catalogapi.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("ошибка получения товара: %w", err)
		}
		s.writeCache(ctx, key, res)
		p = *res
	}

	s.resolveProduct(ctx, &p)
	return &p, nil
}

// Content блоги, баннеры и слайдеры; ответ внешнего API отдается как есть
func (s *CatalogService) Content(ctx context.Context, r catalogapi.Resource, query url.Values) (json.RawMessage, error) {
	switch r {
	case catalogapi.ResourceBlogs, catalogapi.ResourceBanners, catalogapi.ResourceSliders:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownContent, r)
	}

	key := "catalog:content:" + string(r) + ":" + query.Encode()
	var raw json.RawMessage
	if s.readCache(ctx, key, &raw) {
		return raw, nil
	}

	raw, err := s.api.List(ctx, r, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения %s: %w", r, err)
	}
	s.writeCache(ctx, key, raw)
	return raw, nil
}

// Invalidate сбрасывает закэшированный каталог
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, CatalogPattern)
}

func (s *CatalogService) resolveProduct(ctx context.Context, p *models.Product) {
	for i, img := range p.Images {
		p.Images[i] = s.resolve(ctx, img)
	}
}

func (s *CatalogService) resolveCategory(ctx context.Context, c *models.Category) {
	c.Image = s.resolve(ctx, c.Image)
	for _, sub := range c.SubCategories {
		s.resolveCategory(ctx, sub)
	}
}

// resolve при ошибке оставляет исходное значение
func (s *CatalogService) resolve(ctx context.Context, key string) string {
	if s.resolver == nil || key == "" {
		return key
	}
	u, err := s.resolver.ResolveImageURL(ctx, key)
	if err != nil {
		s.logger.WarnWithContext(ctx, "Не удалось получить ссылку на изображение",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return key
	}
	return u
}

func (s *CatalogService) readCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *CatalogService) writeCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.WarnWithContext(ctx, "Ошибка записи в кэш",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}
}
