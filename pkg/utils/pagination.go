package utils

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// Pagination описывает параметры постраничной выдачи витрины
type Pagination struct {
	Page       int    `json:"page"`       // Номер страницы (начиная с 1)
	Limit      int    `json:"limit"`      // Размер страницы
	Total      int    `json:"total"`      // Общее количество элементов
	TotalPages int    `json:"totalPages"` // Общее количество страниц
	SortBy     string `json:"sortBy,omitempty"`
	SortOrder  string `json:"sortOrder,omitempty"` // "asc" или "desc"
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
}

// NewPagination создает новый экземпляр Pagination с заданными параметрами
func NewPagination(page, limit int, sortBy, sortOrder string) *Pagination {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortOrder = strings.ToLower(sortOrder)
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = ""
	}

	return &Pagination{
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// PaginationFromQuery читает page, limit, sortBy и sortOrder из query-строки
func PaginationFromQuery(q url.Values) *Pagination {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return NewPagination(page, limit, q.Get("sortBy"), q.Get("sortOrder"))
}

// SetTotal устанавливает общее количество элементов и пересчитывает зависимые поля
func (p *Pagination) SetTotal(total int) {
	p.Total = total
	p.TotalPages = (total + p.Limit - 1) / p.Limit
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
}

// Apply записывает параметры пагинации в query-строку запроса к REST API
func (p *Pagination) Apply(q url.Values) {
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
}
