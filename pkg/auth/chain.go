package auth

import (
	"context"
	"errors"

	"github.com/sobirov-market/storefront/pkg/interfaces"
)

var ErrNoVerifiers = errors.New("no token verifiers configured")

// ChainVerifier пробует проверяющих по порядку и возвращает первого успешного
type ChainVerifier []interfaces.AuthPort

func (c ChainVerifier) ValidateToken(ctx context.Context, token string) (*interfaces.Principal, error) {
	if len(c) == 0 {
		return nil, ErrNoVerifiers
	}

	var errs []error
	for _, v := range c {
		if v == nil {
			continue
		}
		principal, err := v.ValidateToken(ctx, token)
		if err == nil {
			return principal, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrNoVerifiers
	}
	return nil, errors.Join(errs...)
}
