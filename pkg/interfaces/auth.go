package interfaces

import (
	"context"
)

// Principal описывает аутентифицированного пользователя админки
type Principal struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole проверяет наличие роли у пользователя
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthPort определяет интерфейс для работы с аутентификацией
type AuthPort interface {
	// ValidateToken проверяет токен и возвращает пользователя
	ValidateToken(ctx context.Context, token string) (*Principal, error)
}
