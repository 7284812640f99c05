package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sobirov-market/storefront/pkg/interfaces"
)

type principalKey struct{}

// PrincipalFromContext возвращает пользователя, положенного AuthMiddleware
func PrincipalFromContext(ctx context.Context) (*interfaces.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*interfaces.Principal)
	return p, ok
}

// ContextWithPrincipal кладет пользователя в контекст
func ContextWithPrincipal(ctx context.Context, p *interfaces.Principal) context.Context {
	ctx = interfaces.ContextWithValue(ctx, interfaces.UserIDKey, p.UserID)
	return context.WithValue(ctx, principalKey{}, p)
}

// BearerToken извлекает токен из заголовка Authorization
func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthMiddleware промежуточное ПО для проверки JWT токенов
func AuthMiddleware(verifier interfaces.AuthPort, logger interfaces.LoggerPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			principal, err := verifier.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				logger.WarnWithContext(r.Context(), "Недействительный JWT токен",
					interfaces.LogField{Key: "error", Value: err.Error()})
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole проверяет наличие хотя бы одной роли из списка
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if principal.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}
