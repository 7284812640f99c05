package filter

import (
	"slices"
	"sync"
)

// ChangeFunc единственный потребитель изменений фильтра.
// Вызывается после снятия блокировки с копией состояния.
type ChangeFunc func(State)

// Store хранит состояние фильтра одной страницы.
//
// Правила каскада несимметричны: выбор родителя выбирает всех его детей,
// снятие родителя снимает всех детей, а переключение подкатегории никогда
// не трогает список категорий.
type Store struct {
	mu sync.Mutex

	tree     *Tree
	state    State
	expanded []string

	minPrice         float64
	maxPrice         float64
	userChangedPrice bool

	version  uint64
	onChange ChangeFunc
}

// NewStore создает стор с диапазоном цен [minPrice, maxPrice]. onChange может быть nil.
func NewStore(tree *Tree, minPrice, maxPrice float64, onChange ChangeFunc) *Store {
	minPrice, maxPrice = normalizeBounds(minPrice, maxPrice)
	return &Store{
		tree:     tree,
		state:    DefaultState(minPrice, maxPrice),
		expanded: []string{},
		minPrice: minPrice,
		maxPrice: maxPrice,
		onChange: onChange,
	}
}

// Snapshot согласованный срез стора для ответа клиенту
type Snapshot struct {
	State       State    `json:"state"`
	Expanded    []string `json:"expanded"`
	MinPrice    float64  `json:"minPrice"`
	MaxPrice    float64  `json:"maxPrice"`
	PriceLocked bool     `json:"priceLocked"`
	Version     uint64   `json:"version"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:       s.state.Clone(),
		Expanded:    cloneIDs(s.expanded),
		MinPrice:    s.minPrice,
		MaxPrice:    s.maxPrice,
		PriceLocked: s.userChangedPrice,
		Version:     s.version,
	}
}

// State копия текущего состояния
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Expanded раскрытые в панели категории
func (s *Store) Expanded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIDs(s.expanded)
}

func (s *Store) IsExpanded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.expanded, id)
}

// PriceLocked сообщает, что пользователь уже менял цену вручную
func (s *Store) PriceLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userChangedPrice
}

// Tree дерево, с которым работает стор
func (s *Store) Tree() *Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// SetTree подменяет дерево, например после перезагрузки категорий
func (s *Store) SetTree(tree *Tree) {
	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
}

// mutate выполняет fn под блокировкой и уведомляет потребителя, если fn вернула true
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	snapshot := s.state.Clone()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// UpdateFilters вливает частичное обновление и уведомляет потребителя.
// Обновление с диапазоном цен навсегда включает блокировку цены.
func (s *Store) UpdateFilters(p Partial) {
	s.mutate(func() bool {
		p.apply(&s.state)
		if p.PriceRange != nil {
			s.userChangedPrice = true
		}
		return true
	})
}

// ToggleCategory выбирает или снимает категорию с каскадом на прямых детей
func (s *Store) ToggleCategory(id string) {
	s.mutate(func() bool {
		s.toggleCategoryLocked(id)
		return true
	})
}

func (s *Store) toggleCategoryLocked(id string) {
	children := s.tree.ChildIDs(id)

	if slices.Contains(s.state.Categories, id) {
		s.state.Categories = removeIDs(s.state.Categories, id)
		if len(children) > 0 {
			s.state.Subcategories = removeIDs(s.state.Subcategories, children...)
		}
		return
	}

	s.state.Categories = append(cloneIDs(s.state.Categories), id)
	if len(children) > 0 {
		s.state.Subcategories = appendUnique(cloneIDs(s.state.Subcategories), children...)
		s.expanded = appendUnique(s.expanded, id)
	}
}

// ToggleSubcategory переключает подкатегорию, не затрагивая категории
func (s *Store) ToggleSubcategory(id string) {
	s.mutate(func() bool {
		s.state.Subcategories = toggleID(s.state.Subcategories, id)
		return true
	})
}

// ToggleBrand переключает бренд
func (s *Store) ToggleBrand(id string) {
	s.mutate(func() bool {
		s.state.Brands = toggleID(s.state.Brands, id)
		return true
	})
}

// ToggleExpanded раскрывает или сворачивает категорию в панели; на выбор не влияет
func (s *Store) ToggleExpanded(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = toggleID(s.expanded, id)
}

// SetPriceBounds принимает новые границы цен от сервера.
// Пока пользователь не трогал цену, диапазон сбрасывается на новые границы.
func (s *Store) SetPriceBounds(minPrice, maxPrice float64) {
	minPrice, maxPrice = normalizeBounds(minPrice, maxPrice)
	s.mutate(func() bool {
		s.minPrice, s.maxPrice = minPrice, maxPrice
		if s.userChangedPrice {
			return false
		}
		next := PriceRange{minPrice, maxPrice}
		if s.state.PriceRange == next {
			return false
		}
		s.state.PriceRange = next
		return true
	})
}

// ClearFilters сбрасывает фильтр к значениям по умолчанию с текущими границами цен.
// Блокировка цены при этом не снимается.
func (s *Store) ClearFilters() {
	s.mutate(func() bool {
		s.state = DefaultState(s.minPrice, s.maxPrice)
		s.expanded = []string{}
		return true
	})
}

// selectCategory выбирает категорию верхнего уровня, если она еще не выбрана
func (s *Store) selectCategory(id string) {
	s.mutate(func() bool {
		if slices.Contains(s.state.Categories, id) {
			return false
		}
		s.toggleCategoryLocked(id)
		return true
	})
}

// selectSubcategory выбирает подкатегорию и раскрывает ее родителя.
// Раскрытие, как и в ToggleExpanded, не меняет фильтр: если подкатегория уже
// выбрана, версия не растет и потребитель не уведомляется.
func (s *Store) selectSubcategory(id, parentID string) {
	s.mutate(func() bool {
		if parentID != "" {
			s.expanded = appendUnique(s.expanded, parentID)
		}
		if slices.Contains(s.state.Subcategories, id) {
			return false
		}
		s.state.Subcategories = append(cloneIDs(s.state.Subcategories), id)
		return true
	})
}

// selectBrand выбирает бренд, если он еще не выбран
func (s *Store) selectBrand(id string) {
	s.mutate(func() bool {
		if slices.Contains(s.state.Brands, id) {
			return false
		}
		s.state.Brands = append(cloneIDs(s.state.Brands), id)
		return true
	})
}
