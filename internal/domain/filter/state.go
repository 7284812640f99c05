package filter

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/sobirov-market/storefront/pkg/utils"
)

// PriceRange диапазон цен [min, max]
type PriceRange [2]float64

// State текущее состояние фильтра одной страницы каталога
type State struct {
	Search        string     `json:"search"`
	Categories    []string   `json:"categories"`
	Subcategories []string   `json:"subcategories"`
	Brands        []string   `json:"brands"`
	PriceRange    PriceRange `json:"priceRange"`
	IsNew         bool       `json:"isNew"`
	HasDiscount   bool       `json:"hasDiscount"`
}

// DefaultState состояние после очистки фильтра
func DefaultState(minPrice, maxPrice float64) State {
	return State{
		Categories:    []string{},
		Subcategories: []string{},
		Brands:        []string{},
		PriceRange:    PriceRange{minPrice, maxPrice},
	}
}

// Clone глубокая копия, безопасная для передачи за пределы стора
func (s State) Clone() State {
	s.Categories = cloneIDs(s.Categories)
	s.Subcategories = cloneIDs(s.Subcategories)
	s.Brands = cloneIDs(s.Brands)
	return s
}

// Partial частичное обновление: nil поля не меняются
type Partial struct {
	Search        *string     `json:"search,omitempty"`
	Categories    *[]string   `json:"categories,omitempty"`
	Subcategories *[]string   `json:"subcategories,omitempty"`
	Brands        *[]string   `json:"brands,omitempty"`
	PriceRange    *PriceRange `json:"priceRange,omitempty"`
	IsNew         *bool       `json:"isNew,omitempty"`
	HasDiscount   *bool       `json:"hasDiscount,omitempty"`
}

// apply вливает изменения в состояние
func (p Partial) apply(s *State) {
	if p.Search != nil {
		s.Search = *p.Search
	}
	if p.Categories != nil {
		s.Categories = cloneIDs(*p.Categories)
	}
	if p.Subcategories != nil {
		s.Subcategories = cloneIDs(*p.Subcategories)
	}
	if p.Brands != nil {
		s.Brands = cloneIDs(*p.Brands)
	}
	if p.PriceRange != nil {
		s.PriceRange = normalizeRange(*p.PriceRange)
	}
	if p.IsNew != nil {
		s.IsNew = *p.IsNew
	}
	if p.HasDiscount != nil {
		s.HasDiscount = *p.HasDiscount
	}
}

// Query переводит состояние в параметры GET /products внешнего API.
// Категории и подкатегории уходят одним списком categoryId через запятую.
func (s State) Query(p *utils.Pagination) url.Values {
	q := url.Values{}

	if search := strings.TrimSpace(s.Search); search != "" {
		q.Set("search", search)
	}

	categoryIDs := make([]string, 0, len(s.Categories)+len(s.Subcategories))
	categoryIDs = appendUnique(categoryIDs, s.Categories...)
	categoryIDs = appendUnique(categoryIDs, s.Subcategories...)
	if len(categoryIDs) > 0 {
		q.Set("categoryId", strings.Join(categoryIDs, ","))
	}
	if len(s.Brands) > 0 {
		q.Set("brandId", strings.Join(s.Brands, ","))
	}

	if s.PriceRange[1] > 0 {
		q.Set("minPrice", formatPrice(s.PriceRange[0]))
		q.Set("maxPrice", formatPrice(s.PriceRange[1]))
	}
	if s.IsNew {
		q.Set("isNew", "true")
	}
	if s.HasDiscount {
		q.Set("hasDiscount", "true")
	}

	if p != nil {
		p.Apply(q)
	}
	return q
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// normalizeRange упорядочивает концы диапазона и обрезает отрицательные цены
func normalizeRange(r PriceRange) PriceRange {
	if r[1] < r[0] {
		r[0], r[1] = r[1], r[0]
	}
	return PriceRange{max(r[0], 0), max(r[1], 0)}
}

// normalizeBounds границы цен от сервера: без отрицательных значений и с max >= min.
// Неизвестный верх (max == 0 при min > 0) подтягивается к min.
func normalizeBounds(minPrice, maxPrice float64) (float64, float64) {
	minPrice, maxPrice = max(minPrice, 0), max(maxPrice, 0)
	if maxPrice < minPrice {
		maxPrice = minPrice
	}
	return minPrice, maxPrice
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func appendUnique(ids []string, add ...string) []string {
	for _, id := range add {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func removeIDs(ids []string, remove ...string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if !slices.Contains(remove, id) {
			out = append(out, id)
		}
	}
	return out
}

func toggleID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return removeIDs(ids, id)
	}
	return append(cloneIDs(ids), id)
}
