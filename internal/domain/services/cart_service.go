package services

import (
	"context"
	"sync"

	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/domain/clientstore"
	apperrors "github.com/sobirov-market/storefront/internal/utils"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/models"
)

// CartView корзина в ответе API
type CartView struct {
	Items    []clientstore.Item   `json:"items"`
	Count    int                  `json:"count"`
	Quantity int                  `json:"quantity"`
	Total    float64              `json:"total"`
	Skipped  []string             `json:"skipped,omitempty"`
	Notices  []clientstore.Notice `json:"notices,omitempty"`
}

// FavoritesView избранное в ответе API
type FavoritesView struct {
	Items   []clientstore.Item   `json:"items"`
	Count   int                  `json:"count"`
	Notices []clientstore.Notice `json:"notices,omitempty"`
}

// noticeCollector собирает уведомления одного запроса и публикует события
type noticeCollector struct {
	mu        sync.Mutex
	notices   []clientstore.Notice
	publisher EventPublisher
	logger    interfaces.LoggerPort
}

func (c *noticeCollector) Notify(ctx context.Context, n clientstore.Notice) {
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()

	c.logger.DebugWithContext(ctx, "Изменение клиентского стора",
		interfaces.LogField{Key: "store", Value: n.Store},
		interfaces.LogField{Key: "kind", Value: string(n.Kind)},
		interfaces.LogField{Key: "item_id", Value: n.ItemID},
	)

	if eventType := noticeEvent(n); eventType != "" && c.publisher != nil {
		c.publisher.PublishQuietly(ctx, eventType, n.Store, n.ItemID, n)
	}
}

func (c *noticeCollector) collected() []clientstore.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]clientstore.Notice(nil), c.notices...)
}

func noticeEvent(n clientstore.Notice) string {
	switch {
	case n.Store == clientstore.CartKey && n.Kind == clientstore.NoticeAdded:
		return messaging.CartItemAddedEvent
	case n.Store == clientstore.CartKey && n.Kind == clientstore.NoticeRemoved:
		return messaging.CartItemRemovedEvent
	case n.Store == clientstore.FavoritesKey && n.Kind == clientstore.NoticeAdded:
		return messaging.FavoriteAddedEvent
	case n.Store == clientstore.FavoritesKey && n.Kind == clientstore.NoticeRemoved:
		return messaging.FavoriteRemovedEvent
	}
	return ""
}

// CartService корзина, избранное и язык клиентской сессии.
// Каждый запрос читает стор из хранилища заново, как вкладка браузера после перезагрузки.
type CartService struct {
	storage   interfaces.ClientStoragePort
	publisher EventPublisher
	logger    interfaces.LoggerPort
}

func NewCartService(storage interfaces.ClientStoragePort, publisher EventPublisher, logger interfaces.LoggerPort) *CartService {
	return &CartService{storage: storage, publisher: publisher, logger: logger}
}

func (s *CartService) collector() *noticeCollector {
	return &noticeCollector{publisher: s.publisher, logger: s.logger}
}

func (s *CartService) loadCart(ctx context.Context, sessionID string) (*clientstore.Cart, *noticeCollector, error) {
	if sessionID == "" {
		return nil, nil, apperrors.ErrEmptySessionID
	}
	n := s.collector()
	cart, err := clientstore.LoadCart(ctx, s.storage, sessionID, n, s.logger)
	return cart, n, err
}

func (s *CartService) loadFavorites(ctx context.Context, sessionID string) (*clientstore.Favorites, *noticeCollector, error) {
	if sessionID == "" {
		return nil, nil, apperrors.ErrEmptySessionID
	}
	n := s.collector()
	favorites, err := clientstore.LoadFavorites(ctx, s.storage, sessionID, n, s.logger)
	return favorites, n, err
}

func cartView(cart *clientstore.Cart, n *noticeCollector) *CartView {
	total, skipped := cart.Total()
	return &CartView{
		Items:    cart.Items(),
		Count:    cart.Count(),
		Quantity: cart.Quantity(),
		Total:    total,
		Skipped:  skipped,
		Notices:  n.collected(),
	}
}

func favoritesView(f *clientstore.Favorites, n *noticeCollector) *FavoritesView {
	return &FavoritesView{Items: f.Items(), Count: f.Count(), Notices: n.collected()}
}

// Cart текущая корзина
func (s *CartService) Cart(ctx context.Context, sessionID string) (*CartView, error) {
	cart, n, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cartView(cart, n), nil
}

// AddToCart кладет товар в корзину; повторное добавление дает уведомление "exists"
func (s *CartService) AddToCart(ctx context.Context, sessionID string, item clientstore.Item) (*CartView, error) {
	cart, n, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := cart.Add(ctx, item); err != nil {
		return nil, err
	}
	return cartView(cart, n), nil
}

// RemoveFromCart убирает товар из корзины
func (s *CartService) RemoveFromCart(ctx context.Context, sessionID, id string) (*CartView, error) {
	cart, n, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := cart.Remove(ctx, id); err != nil {
		return nil, err
	}
	return cartView(cart, n), nil
}

// UpdateQuantity меняет количество; значения меньше 1 отклоняются
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, id string, quantity int) (*CartView, error) {
	cart, n, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := cart.UpdateQuantity(ctx, id, quantity); err != nil {
		return nil, err
	}
	return cartView(cart, n), nil
}

// ClearCart очищает корзину
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	cart, n, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.Clear(ctx); err != nil {
		return nil, err
	}
	return cartView(cart, n), nil
}

// Favorites текущее избранное
func (s *CartService) Favorites(ctx context.Context, sessionID string) (*FavoritesView, error) {
	f, n, err := s.loadFavorites(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return favoritesView(f, n), nil
}

// AddFavorite добавляет товар в избранное
func (s *CartService) AddFavorite(ctx context.Context, sessionID string, item clientstore.Item) (*FavoritesView, error) {
	f, n, err := s.loadFavorites(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := f.Add(ctx, item); err != nil {
		return nil, err
	}
	return favoritesView(f, n), nil
}

// ToggleFavorite добавляет товар в избранное или убирает его оттуда
func (s *CartService) ToggleFavorite(ctx context.Context, sessionID string, item clientstore.Item) (*FavoritesView, error) {
	f, n, err := s.loadFavorites(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := f.Toggle(ctx, item); err != nil {
		return nil, err
	}
	return favoritesView(f, n), nil
}

// RemoveFavorite убирает товар из избранного
func (s *CartService) RemoveFavorite(ctx context.Context, sessionID, id string) (*FavoritesView, error) {
	f, n, err := s.loadFavorites(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := f.Remove(ctx, id); err != nil {
		return nil, err
	}
	return favoritesView(f, n), nil
}

// ClearFavorites очищает избранное
func (s *CartService) ClearFavorites(ctx context.Context, sessionID string) (*FavoritesView, error) {
	f, n, err := s.loadFavorites(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := f.Clear(ctx); err != nil {
		return nil, err
	}
	return favoritesView(f, n), nil
}

// Language язык сессии
func (s *CartService) Language(ctx context.Context, sessionID string) (models.Language, error) {
	if sessionID == "" {
		return models.LanguageUz, apperrors.ErrEmptySessionID
	}
	return clientstore.NewLanguage(s.storage, sessionID).Get(ctx)
}

// SetLanguage сохраняет язык; неизвестные значения превращаются в "uz"
func (s *CartService) SetLanguage(ctx context.Context, sessionID, lang string) (models.Language, error) {
	if sessionID == "" {
		return models.LanguageUz, apperrors.ErrEmptySessionID
	}
	parsed := models.ParseLanguage(lang)
	if err := clientstore.NewLanguage(s.storage, sessionID).Set(ctx, parsed); err != nil {
		return parsed, err
	}
	return parsed, nil
}
