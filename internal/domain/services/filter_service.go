package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	apperrors "github.com/sobirov-market/storefront/internal/utils"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/models"
	"github.com/sobirov-market/storefront/pkg/utils"
)

var (
	ErrFilterSessionNotFound = errors.New("filter session not found")
	ErrEmptyFilterPage       = errors.New("filter page is empty")
)

// PriceBounds границы цены, которые страница получила из данных товаров
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterView состояние панели фильтра вместе со страницей товаров по нему
type FilterView struct {
	Page          string                       `json:"page"`
	Filter        filter.Snapshot              `json:"filter"`
	Applied       filter.Selection             `json:"applied"`
	Notifications uint64                       `json:"notifications"`
	Products      *models.Page[models.Product] `json:"products"`
	Pagination    *utils.Pagination            `json:"pagination"`
}

// filterSession стор фильтра одной страницы одной сессии
type filterSession struct {
	page    string
	store   *filter.Store
	syncer  *filter.Synchronizer
	initial filter.Selection

	mu     sync.RWMutex
	brands map[string]struct{}

	notified atomic.Uint64
}

// onChange единственный потребитель стора: считает уведомления
func (fs *filterSession) onChange(filter.State) {
	fs.notified.Add(1)
}

func (fs *filterSession) knownBrand(id string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, ok := fs.brands[id]
	return ok
}

func (fs *filterSession) setBrands(brands []models.Brand) {
	set := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		set[b.ID] = struct{}{}
	}
	fs.mu.Lock()
	fs.brands = set
	fs.mu.Unlock()
}

// FilterService держит сторы фильтров по ключу (сессия, страница).
// Состояние живет в памяти процесса и истекает через ttl без обращений.
type FilterService struct {
	loader   *filter.Loader
	catalog  *CatalogService
	sessions *gocache.Cache
	logger   interfaces.LoggerPort
}

func NewFilterService(loader *filter.Loader, catalog *CatalogService, ttl, cleanup time.Duration, logger interfaces.LoggerPort) *FilterService {
	return &FilterService{
		loader:   loader,
		catalog:  catalog,
		sessions: gocache.New(ttl, cleanup),
		logger:   logger,
	}
}

func filterKey(sessionID, page string) string {
	return sessionID + "|" + page
}

// Open вход на страницу: стор всегда создается заново, как при переходе по ссылке,
// и к нему применяется начальный выбор из URL. Переданные границы цены задают диапазон.
func (s *FilterService) Open(ctx context.Context, sessionID, page string, sel filter.Selection, bounds *PriceBounds, p *utils.Pagination) (*FilterView, error) {
	if sessionID == "" {
		return nil, apperrors.ErrEmptySessionID
	}
	if page == "" {
		return nil, ErrEmptyFilterPage
	}

	fs := s.create(ctx, sessionID, page, sel, bounds)
	fs.syncer.Sync(sel)

	return s.view(ctx, fs, p)
}

// Get текущее состояние стора страницы
func (s *FilterService) Get(ctx context.Context, sessionID, page string, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(*filter.Store) {})
}

// Update вливает частичное обновление фильтра
func (s *FilterService) Update(ctx context.Context, sessionID, page string, partial filter.Partial, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(st *filter.Store) { st.UpdateFilters(partial) })
}

func (s *FilterService) ToggleCategory(ctx context.Context, sessionID, page, id string, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(st *filter.Store) { st.ToggleCategory(id) })
}

func (s *FilterService) ToggleSubcategory(ctx context.Context, sessionID, page, id string, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(st *filter.Store) { st.ToggleSubcategory(id) })
}

func (s *FilterService) ToggleBrand(ctx context.Context, sessionID, page, id string, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(st *filter.Store) { st.ToggleBrand(id) })
}

func (s *FilterService) ToggleExpanded(ctx context.Context, sessionID, page, id string, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(st *filter.Store) { st.ToggleExpanded(id) })
}

// SetBounds обновляет границы цены; после ручного выбора цены диапазон не меняется
func (s *FilterService) SetBounds(ctx context.Context, sessionID, page string, bounds PriceBounds, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(st *filter.Store) { st.SetPriceBounds(bounds.Min, bounds.Max) })
}

// Clear сбрасывает фильтр к значениям по умолчанию
func (s *FilterService) Clear(ctx context.Context, sessionID, page string, p *utils.Pagination) (*FilterView, error) {
	return s.apply(ctx, sessionID, page, p, func(st *filter.Store) { st.ClearFilters() })
}

// Close удаляет стор страницы
func (s *FilterService) Close(sessionID, page string) {
	s.sessions.Delete(filterKey(sessionID, page))
}

// Count количество живых сторов
func (s *FilterService) Count() int {
	return s.sessions.ItemCount()
}

func (s *FilterService) apply(ctx context.Context, sessionID, page string, p *utils.Pagination, fn func(*filter.Store)) (*FilterView, error) {
	fs, ok := s.lookup(sessionID, page)
	if !ok {
		return nil, ErrFilterSessionNotFound
	}
	// выбор из URL, который не нашелся в пустом дереве, применяется после его загрузки
	if s.refreshTree(ctx, fs) {
		fs.syncer.Sync(fs.initial)
	}
	fn(fs.store)
	return s.view(ctx, fs, p)
}

// lookup продлевает жизнь найденного стора
func (s *FilterService) lookup(sessionID, page string) (*filterSession, bool) {
	key := filterKey(sessionID, page)
	v, ok := s.sessions.Get(key)
	if !ok {
		return nil, false
	}
	s.sessions.Set(key, v, gocache.DefaultExpiration)
	return v.(*filterSession), true
}

func (s *FilterService) create(ctx context.Context, sessionID, page string, sel filter.Selection, bounds *PriceBounds) *filterSession {
	var minPrice, maxPrice float64
	if bounds != nil {
		minPrice, maxPrice = bounds.Min, bounds.Max
	}

	fs := &filterSession{page: page, initial: sel}
	fs.store = filter.NewStore(s.loader.LoadTree(ctx), minPrice, maxPrice, fs.onChange)
	fs.syncer = filter.NewSynchronizer(fs.store, fs.knownBrand)
	fs.setBrands(s.loader.LoadBrands(ctx))

	// прежний стор страницы этой сессии заменяется
	s.sessions.Set(filterKey(sessionID, page), fs, gocache.DefaultExpiration)

	s.logger.DebugWithContext(ctx, "Создан стор фильтра",
		interfaces.LogField{Key: "page", Value: page},
		interfaces.LogField{Key: "categories", Value: fs.store.Tree().Len()},
	)
	return fs
}

// refreshTree перезагружает справочники, если первая загрузка вернула пустые списки.
// Возвращает true, когда что-то было загружено заново.
func (s *FilterService) refreshTree(ctx context.Context, fs *filterSession) bool {
	reloaded := false
	if fs.store.Tree().Len() == 0 {
		tree := s.loader.LoadTree(ctx)
		if tree.Len() > 0 {
			fs.store.SetTree(tree)
			reloaded = true
		}
	}
	fs.mu.RLock()
	noBrands := len(fs.brands) == 0
	fs.mu.RUnlock()
	if noBrands {
		if brands := s.loader.LoadBrands(ctx); len(brands) > 0 {
			fs.setBrands(brands)
			reloaded = true
		}
	}
	return reloaded
}

func (s *FilterService) view(ctx context.Context, fs *filterSession, p *utils.Pagination) (*FilterView, error) {
	if p == nil {
		p = utils.NewPagination(1, utils.DefaultLimit, "", "")
	}
	snap := fs.store.Snapshot()

	products, err := s.catalog.Products(ctx, snap.State.Query(p))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки товаров по фильтру: %w", err)
	}
	p.SetTotal(products.Total)

	return &FilterView{
		Page:          fs.page,
		Filter:        snap,
		Applied:       fs.syncer.Applied(),
		Notifications: fs.notified.Load(),
		Products:      products,
		Pagination:    p,
	}, nil
}
