package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/domain/clientstore"
	apperrors "github.com/sobirov-market/storefront/internal/utils"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/tx"
)

// LastOrderKey ключ клиентского хранилища с последним оформленным заказом
const LastOrderKey = "last_order"

var ErrEmptyCart = errors.New("cart is empty")

// ValidationError ошибка в поле формы оформления заказа
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// CheckoutRequest форма оформления заказа
type CheckoutRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// CheckoutResult принятый заказ
type CheckoutResult struct {
	Order json.RawMessage `json:"order"`
	Total float64         `json:"total"`
	Items int             `json:"items"`
}

// NormalizePhone оставляет только цифры и приводит номер к виду 998XXXXXXXXX
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "998"):
		return digits, true
	case len(digits) == 9:
		return "998" + digits, true
	default:
		return "", false
	}
}

// Validate проверяет форму и нормализует телефон
func (r *CheckoutRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return &ValidationError{Field: "name", Message: "Укажите имя"}
	}
	phone, ok := NormalizePhone(r.Phone)
	if !ok {
		return &ValidationError{Field: "phone", Message: "Неверный номер телефона"}
	}
	r.Phone = phone
	r.Address = strings.TrimSpace(r.Address)
	r.Comment = strings.TrimSpace(r.Comment)
	return nil
}

// CheckoutService оформление заказа из корзины сессии
type CheckoutService struct {
	storage   interfaces.ClientStoragePort
	orders    OrderBackend
	txManager tx.Manager
	publisher EventPublisher
	logger    interfaces.LoggerPort
}

func NewCheckoutService(storage interfaces.ClientStoragePort, orders OrderBackend, txManager tx.Manager, publisher EventPublisher, logger interfaces.LoggerPort) *CheckoutService {
	return &CheckoutService{
		storage:   storage,
		orders:    orders,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout отправляет заказ во внешний API, затем в одной транзакции очищает корзину
// и сохраняет ответ как последний заказ
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutResult, error) {
	if sessionID == "" {
		return nil, apperrors.ErrEmptySessionID
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, err := clientstore.LoadCart(ctx, s.storage, sessionID, nil, s.logger)
	if err != nil {
		return nil, err
	}
	if cart.Count() == 0 {
		return nil, ErrEmptyCart
	}

	// позиции без читаемой цены не уходят в заказ с нулевой ценой
	total, skipped := cart.Total()
	if len(skipped) > 0 {
		s.logger.WarnWithContext(ctx, "В заказе есть позиции с нечитаемой ценой",
			interfaces.LogField{Key: "items", Value: skipped})
		return nil, &ValidationError{
			Field:   "items",
			Message: "Не удалось определить цену товаров: " + strings.Join(skipped, ", "),
		}
	}

	items := cart.Items()
	order := &catalogapi.Order{
		Customer: req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Comment:  req.Comment,
		Items:    make([]catalogapi.OrderLine, 0, len(items)),
		Total:    total,
	}
	for _, it := range items {
		price, err := it.Price.Value()
		if err != nil {
			return nil, err
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		order.Items = append(order.Items, catalogapi.OrderLine{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     price,
			Quantity:  qty,
		})
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания заказа: %w", err)
	}
	if len(created) == 0 {
		created = json.RawMessage("{}")
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := cart.Clear(ctx); err != nil {
			return err
		}
		return s.storage.Set(ctx, sessionID, LastOrderKey, created)
	})
	if err != nil {
		// заказ уже принят внешним API, корзина останется до следующей попытки
		s.logger.ErrorWithContext(ctx, "Заказ создан, но корзину не удалось очистить",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}

	s.publisher.PublishQuietly(ctx, messaging.OrderPlacedEvent, "orders", sessionID, map[string]interface{}{
		"customer": order.Customer,
		"phone":    order.Phone,
		"items":    len(order.Items),
		"total":    order.Total,
	})

	s.logger.InfoWithContext(ctx, "Заказ оформлен",
		interfaces.LogField{Key: "items", Value: len(order.Items)},
		interfaces.LogField{Key: "total", Value: order.Total},
	)

	return &CheckoutResult{Order: created, Total: total, Items: len(order.Items)}, nil
}

// LastOrder последний заказ сессии
func (s *CheckoutService) LastOrder(ctx context.Context, sessionID string) (json.RawMessage, error) {
	raw, err := s.storage.Get(ctx, sessionID, LastOrderKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrStorageKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}
