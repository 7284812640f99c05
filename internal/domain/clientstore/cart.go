package clientstore

import (
	"context"

	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// Cart корзина сессии
type Cart struct {
	*List
}

// LoadCart читает корзину сессии из хранилища
func LoadCart(ctx context.Context, storage interfaces.ClientStoragePort, sessionID string, notifier Notifier, logger interfaces.LoggerPort) (*Cart, error) {
	l, err := loadList(ctx, storage, sessionID, CartKey, notifier, logger)
	if err != nil {
		return nil, err
	}
	return &Cart{List: l}, nil
}

// Add кладет товар в корзину. Количество по умолчанию 1; повторное добавление
// того же id ничего не меняет, для изменения количества есть UpdateQuantity.
func (c *Cart) Add(ctx context.Context, item Item) (bool, error) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return c.add(ctx, item)
}

// UpdateQuantity меняет количество; quantity < 1 игнорируется
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) (bool, error) {
	return c.updateQuantity(ctx, id, quantity)
}

// Total сумма корзины. Позиции с нечитаемой ценой пропускаются и возвращаются в skipped.
func (c *Cart) Total() (total float64, skipped []string) {
	for _, it := range c.Items() {
		price, err := it.Price.Value()
		if err != nil {
			skipped = append(skipped, it.ID)
			continue
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total += price * float64(qty)
	}
	return total, skipped
}

// Quantity общее количество единиц товара
func (c *Cart) Quantity() int {
	n := 0
	for _, it := range c.Items() {
		if it.Quantity < 1 {
			n++
			continue
		}
		n += it.Quantity
	}
	return n
}
