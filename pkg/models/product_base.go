package models

import "encoding/json"

// Product товар в том виде, в котором его отдает REST API
type Product struct {
	ID            string   `json:"id"`
	NameUz        string   `json:"nameUz"`
	NameRu        string   `json:"nameRu"`
	DescriptionUz string   `json:"descriptionUz,omitempty"`
	DescriptionRu string   `json:"descriptionRu,omitempty"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Images        []string `json:"images,omitempty"`
	CategoryID    string   `json:"categoryId,omitempty"`
	BrandID       string   `json:"brandId,omitempty"`
	IsNew         bool     `json:"isNew"`
	HasDiscount   bool     `json:"hasDiscount"`
	IsActive      bool     `json:"isActive"`
	Stock         int      `json:"stock"`
}

// Name возвращает название на нужном языке
func (p *Product) Name(lang Language) string {
	return localized(lang, p.NameUz, p.NameRu)
}

// Page конверт постраничного ответа REST API: {data, total, page, totalPages}
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// DecodePage разбирает ответ, который может быть как конвертом, так и голым массивом.
// Для голого массива Total берется по длине, а Page и TotalPages равны 1.
func DecodePage[T any](raw []byte) (*Page[T], error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		if items == nil {
			items = []T{}
		}
		return &Page[T]{Data: items, Total: len(items), Page: 1, TotalPages: 1}, nil
	}

	var page Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}
