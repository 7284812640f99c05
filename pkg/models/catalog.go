package models

import "strings"

// Language язык витрины
type Language string

const (
	LanguageUz Language = "uz"
	LanguageRu Language = "ru"
)

// ParseLanguage возвращает язык по строке; неизвестные значения дают узбекский
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(LanguageRu)) {
		return LanguageRu
	}
	return LanguageUz
}

// Category категория каталога в том виде, в котором ее отдает REST API.
// Категория с непустым ParentID является подкатегорией.
type Category struct {
	ID            string      `json:"id"`
	NameUz        string      `json:"nameUz"`
	NameRu        string      `json:"nameRu"`
	Image         string      `json:"image,omitempty"`
	ParentID      *string     `json:"parentId"`
	Order         int         `json:"order"`
	IsActive      bool        `json:"isActive"`
	SubCategories []*Category `json:"subCategories,omitempty"`
}

// IsTopLevel сообщает, что у категории нет родителя
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// Name возвращает название на нужном языке
func (c *Category) Name(lang Language) string {
	return localized(lang, c.NameUz, c.NameRu)
}

// Brand бренд каталога
type Brand struct {
	ID           string `json:"id"`
	NameUz       string `json:"nameUz"`
	NameRu       string `json:"nameRu"`
	Image        string `json:"image,omitempty"`
	IsActive     bool   `json:"isActive"`
	Order        int    `json:"order"`
	ProductCount int    `json:"productCount"`
}

// Name возвращает название на нужном языке
func (b *Brand) Name(lang Language) string {
	return localized(lang, b.NameUz, b.NameRu)
}

func localized(lang Language, uz, ru string) string {
	if lang == LanguageRu && ru != "" {
		return ru
	}
	if uz == "" {
		return ru
	}
	return uz
}

// StrPtr вспомогательная функция для опциональных строк
func StrPtr(s string) *string {
	return &s
}
