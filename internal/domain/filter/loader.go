package filter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/models"
	"golang.org/x/sync/singleflight"
)

const (
	CategoriesCacheKey = "catalog:categories"
	BrandsCacheKey     = "catalog:brands"
)

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_catalog_cache_requests_total",
		Help: "Обращения к кэшу списков каталога",
	},
	[]string{"list", "result"},
)

// Source внешний источник справочников каталога
type Source interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
}

// Loader загружает категории и бренды для панели фильтра.
// Ошибки не возвращаются: они логируются, а вызывающий получает пустой список.
type Loader struct {
	source Source
	cache  interfaces.CachePort
	ttl    time.Duration
	logger interfaces.LoggerPort
	group  singleflight.Group
}

// NewLoader создает загрузчик; cache может быть nil
func NewLoader(source Source, cache interfaces.CachePort, ttl time.Duration, logger interfaces.LoggerPort) *Loader {
	return &Loader{source: source, cache: cache, ttl: ttl, logger: logger}
}

// LoadCategories плоский упорядоченный список категорий
func (l *Loader) LoadCategories(ctx context.Context) []models.Category {
	return loadList(ctx, l, CategoriesCacheKey, "categories", l.source.ListCategories)
}

// LoadBrands список брендов
func (l *Loader) LoadBrands(ctx context.Context) []models.Brand {
	return loadList(ctx, l, BrandsCacheKey, "brands", l.source.ListBrands)
}

// LoadTree загружает категории и строит дерево
func (l *Loader) LoadTree(ctx context.Context) *Tree {
	return NewTree(l.LoadCategories(ctx))
}

// Invalidate удаляет закэшированные списки
func (l *Loader) Invalidate(ctx context.Context) error {
	if l.cache == nil {
		return nil
	}
	return errors.Join(
		l.cache.Delete(ctx, CategoriesCacheKey),
		l.cache.Delete(ctx, BrandsCacheKey),
	)
}

func loadList[T any](ctx context.Context, l *Loader, key, name string, fetch func(context.Context) ([]T, error)) []T {
	if items, ok := readCache[T](ctx, l, key, name); ok {
		return items
	}

	// Одновременные промахи схлопываются в один запрос. Запрос не должен
	// оборваться из-за отмены контекста того, кто пришел первым.
	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		items, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.writeCache(ctx, key, items)
		return items, nil
	})
	if err != nil {
		l.logger.ErrorWithContext(ctx, "Ошибка загрузки списка каталога",
			interfaces.LogField{Key: "list", Value: name},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return []T{}
	}

	items := v.([]T)
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func readCache[T any](ctx context.Context, l *Loader, key, name string) ([]T, bool) {
	if l.cache == nil {
		return nil, false
	}

	raw, err := l.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			l.logger.WarnWithContext(ctx, "Ошибка чтения кэша",
				interfaces.LogField{Key: "key", Value: key},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		}
		cacheRequests.WithLabelValues(name, "miss").Inc()
		return nil, false
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		cacheRequests.WithLabelValues(name, "corrupt").Inc()
		return nil, false
	}
	cacheRequests.WithLabelValues(name, "hit").Inc()
	if items == nil {
		items = []T{}
	}
	return items, true
}

func (l *Loader) writeCache(ctx context.Context, key string, items interface{}) {
	if l.cache == nil || l.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := l.cache.Set(context.WithoutCancel(ctx), key, raw, l.ttl); err != nil {
		l.logger.WarnWithContext(ctx, "Ошибка записи в кэш",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}
}
