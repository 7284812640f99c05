package clientstore

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Ключи клиентского хранилища
const (
	CartKey      = "cart"
	FavoritesKey = "favorites"
	LanguageKey  = "language"
)

var (
	ErrInvalidPrice = errors.New("invalid price")
	ErrEmptyItemID  = errors.New("item id is empty")
)

// Price цена в том виде, в котором ее показывает витрина, например "10,000".
// При разборе JSON принимается и строка, и число.
type Price string

func (p *Price) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// Value числовое значение цены
func (p Price) Value() (float64, error) {
	return ParsePrice(string(p))
}

// ParsePrice разбирает отображаемую цену: разделители разрядов (запятые, пробелы)
// и суффикс валюты отбрасываются, точка считается десятичным разделителем.
func ParsePrice(s string) (float64, error) {
	var b strings.Builder
loop:
	for _, r := range s {
		switch {
		case unicode.IsDigit(r), r == '.':
			b.WriteRune(r)
		case r == ',', unicode.IsSpace(r):
		default:
			// суффикс валюты вида "so'm" или "сум"
			if b.Len() > 0 {
				break loop
			}
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidPrice
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// Item позиция корзины или избранного
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity,omitempty"`
	Category    string `json:"category,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
}
