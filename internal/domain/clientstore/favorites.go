package clientstore

import (
	"context"

	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// Favorites избранное сессии
type Favorites struct {
	*List
}

// LoadFavorites читает избранное сессии из хранилища
func LoadFavorites(ctx context.Context, storage interfaces.ClientStoragePort, sessionID string, notifier Notifier, logger interfaces.LoggerPort) (*Favorites, error) {
	l, err := loadList(ctx, storage, sessionID, FavoritesKey, notifier, logger)
	if err != nil {
		return nil, err
	}
	return &Favorites{List: l}, nil
}

// Add добавляет товар в избранное; количество в избранном не хранится
func (f *Favorites) Add(ctx context.Context, item Item) (bool, error) {
	item.Quantity = 0
	return f.add(ctx, item)
}

// Toggle добавляет товар или убирает его, если он уже в избранном.
// Возвращает true, если товар теперь в избранном.
func (f *Favorites) Toggle(ctx context.Context, item Item) (bool, error) {
	if f.Contains(item.ID) {
		_, err := f.Remove(ctx, item.ID)
		return false, err
	}
	_, err := f.Add(ctx, item)
	return err == nil, err
}
