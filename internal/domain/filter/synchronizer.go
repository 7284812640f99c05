package filter

import "sync"

// Selection начальный выбор из query-параметров страницы: category, subcategory, brand
type Selection struct {
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Brand       string `json:"brand,omitempty"`
}

// Synchronizer переносит начальный выбор в стор ровно один раз на каждое новое значение.
// Повторный Sync с тем же значением ничего не делает, даже если пользователь
// успел снять выбор вручную.
type Synchronizer struct {
	mu         sync.Mutex
	store      *Store
	knownBrand func(id string) bool
	applied    Selection
}

// NewSynchronizer создает синхронизатор. knownBrand проверяет id бренда; nil принимает любой.
func NewSynchronizer(store *Store, knownBrand func(id string) bool) *Synchronizer {
	return &Synchronizer{store: store, knownBrand: knownBrand}
}

// Sync применяет выбор. Неизвестные id молча игнорируются и не считаются примененными,
// поэтому после перезагрузки дерева их можно применить повторным вызовом.
func (s *Synchronizer) Sync(sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel.Category != "" && sel.Category != s.applied.Category {
		if s.applyCategory(sel.Category) {
			s.applied.Category = sel.Category
		}
	}

	if sel.Subcategory != "" && sel.Subcategory != s.applied.Subcategory {
		if s.applySubcategory(sel.Subcategory) {
			s.applied.Subcategory = sel.Subcategory
		}
	}

	if sel.Brand != "" && sel.Brand != s.applied.Brand {
		if s.knownBrand == nil || s.knownBrand(sel.Brand) {
			s.store.selectBrand(sel.Brand)
			s.applied.Brand = sel.Brand
		}
	}
}

// Applied значения, которые уже были перенесены в стор
func (s *Synchronizer) Applied() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// applyCategory: подкатегория уходит в subcategories с раскрытием родителя,
// категория верхнего уровня выбирается с каскадом
func (s *Synchronizer) applyCategory(id string) bool {
	cat, ok := s.store.Tree().Get(id)
	if !ok {
		return false
	}
	if !cat.IsTopLevel() {
		s.store.selectSubcategory(id, *cat.ParentID)
		return true
	}
	s.store.selectCategory(id)
	return true
}

func (s *Synchronizer) applySubcategory(id string) bool {
	cat, ok := s.store.Tree().Get(id)
	if !ok {
		return false
	}
	var parentID string
	if !cat.IsTopLevel() {
		parentID = *cat.ParentID
	}
	s.store.selectSubcategory(id, parentID)
	return true
}
