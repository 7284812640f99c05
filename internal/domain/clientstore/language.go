package clientstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/models"
)

// Language язык витрины, сохраненный в сессии. По умолчанию узбекский.
type Language struct {
	storage   interfaces.ClientStoragePort
	sessionID string
}

func NewLanguage(storage interfaces.ClientStoragePort, sessionID string) *Language {
	return &Language{storage: storage, sessionID: sessionID}
}

// Get текущий язык; отсутствующее или неизвестное значение дает "uz"
func (l *Language) Get(ctx context.Context) (models.Language, error) {
	raw, err := l.storage.Get(ctx, l.sessionID, LanguageKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrStorageKeyNotFound) {
			return models.LanguageUz, nil
		}
		return models.LanguageUz, fmt.Errorf("ошибка чтения языка: %w", err)
	}
	return models.ParseLanguage(strings.Trim(string(raw), `"`)), nil
}

// Set сохраняет язык
func (l *Language) Set(ctx context.Context, lang models.Language) error {
	if err := l.storage.Set(ctx, l.sessionID, LanguageKey, []byte(lang)); err != nil {
		return fmt.Errorf("ошибка сохранения языка: %w", err)
	}
	return nil
}
