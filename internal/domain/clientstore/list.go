package clientstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// List упорядоченный список позиций одной сессии, сохраняемый под ключом key.
// Каждое изменение сериализует весь список и записывает его целиком.
type List struct {
	mu sync.Mutex

	storage   interfaces.ClientStoragePort
	sessionID string
	key       string
	items     []Item

	notifier Notifier
	logger   interfaces.LoggerPort
}

// loadList синхронно читает список из хранилища.
// Отсутствующий или поврежденный JSON дает пустой список; повреждение логируется,
// а данные перезапишутся при первом изменении.
func loadList(ctx context.Context, storage interfaces.ClientStoragePort, sessionID, key string, notifier Notifier, logger interfaces.LoggerPort) (*List, error) {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	l := &List{
		storage:   storage,
		sessionID: sessionID,
		key:       key,
		items:     []Item{},
		notifier:  notifier,
		logger:    logger,
	}

	raw, err := storage.Get(ctx, sessionID, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrStorageKeyNotFound) {
			return l, nil
		}
		return nil, fmt.Errorf("ошибка чтения %s: %w", key, err)
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.WarnWithContext(ctx, "Поврежденные данные клиентского хранилища, список сброшен",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return l, nil
	}

	// пустые id и повторы в сохраненных данных отбрасываются: первая запись побеждает
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		l.items = append(l.items, it)
	}

	return l, nil
}

// Items копия позиций в порядке добавления
func (l *List) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Contains есть ли позиция с таким id
func (l *List) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexOf(id) >= 0
}

// Count количество позиций
func (l *List) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *List) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// commit сохраняет next; при ошибке записи состояние в памяти не меняется
func (l *List) commit(ctx context.Context, next []Item) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("ошибка сериализации %s: %w", l.key, err)
	}
	if err := l.storage.Set(ctx, l.sessionID, l.key, raw); err != nil {
		return fmt.Errorf("ошибка сохранения %s: %w", l.key, err)
	}
	l.items = next
	return nil
}

// add добавляет позицию, если ее еще нет. Повторное добавление ничего не меняет.
func (l *List) add(ctx context.Context, item Item) (bool, error) {
	if item.ID == "" {
		return false, ErrEmptyItemID
	}

	l.mu.Lock()
	if l.indexOf(item.ID) >= 0 {
		l.mu.Unlock()
		l.notifier.Notify(ctx, Notice{Kind: NoticeExists, Store: l.key, ItemID: item.ID, ItemName: item.Name})
		return false, nil
	}

	next := append(l.snapshotLocked(), item)
	if err := l.commit(ctx, next); err != nil {
		l.mu.Unlock()
		return false, err
	}
	l.mu.Unlock()

	l.notifier.Notify(ctx, Notice{Kind: NoticeAdded, Store: l.key, ItemID: item.ID, ItemName: item.Name, Quantity: item.Quantity})
	return true, nil
}

// Remove удаляет позицию; отсутствие позиции не ошибка
func (l *List) Remove(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		return false, nil
	}

	removed := l.items[idx]
	next := make([]Item, 0, len(l.items)-1)
	next = append(next, l.items[:idx]...)
	next = append(next, l.items[idx+1:]...)
	if err := l.commit(ctx, next); err != nil {
		l.mu.Unlock()
		return false, err
	}
	l.mu.Unlock()

	l.notifier.Notify(ctx, Notice{Kind: NoticeRemoved, Store: l.key, ItemID: removed.ID, ItemName: removed.Name})
	return true, nil
}

// Clear очищает список
func (l *List) Clear(ctx context.Context) error {
	l.mu.Lock()
	if err := l.commit(ctx, []Item{}); err != nil {
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()

	l.notifier.Notify(ctx, Notice{Kind: NoticeCleared, Store: l.key})
	return nil
}

// updateQuantity меняет количество; значения меньше 1 отклоняются без изменений
func (l *List) updateQuantity(ctx context.Context, id string, quantity int) (bool, error) {
	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		return false, nil
	}
	if quantity < 1 {
		l.mu.Unlock()
		l.notifier.Notify(ctx, Notice{Kind: NoticeRejected, Store: l.key, ItemID: id, Quantity: quantity})
		return false, nil
	}
	if l.items[idx].Quantity == quantity {
		l.mu.Unlock()
		return false, nil
	}

	next := l.snapshotLocked()
	next[idx].Quantity = quantity
	if err := l.commit(ctx, next); err != nil {
		l.mu.Unlock()
		return false, err
	}
	name := next[idx].Name
	l.mu.Unlock()

	l.notifier.Notify(ctx, Notice{Kind: NoticeUpdated, Store: l.key, ItemID: id, ItemName: name, Quantity: quantity})
	return true, nil
}

func (l *List) snapshotLocked() []Item {
	out := make([]Item, len(l.items), len(l.items)+1)
	copy(out, l.items)
	return out
}
