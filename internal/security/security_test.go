package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour, "storefront")
	require.NoError(t, err)

	token, expiresAt, err := m.Generate("42", "admin", []string{RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	principal, err := m.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "42", principal.UserID)
	assert.Equal(t, "admin", principal.Username)
	assert.True(t, principal.HasRole(RoleAdmin))
}

func TestJWTManager_Rejects(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour, "storefront")
	require.NoError(t, err)

	_, err = NewJWTManager("", time.Hour, "storefront")
	assert.ErrorIs(t, err, ErrEmptySecret)

	other, _ := NewJWTManager("other", time.Hour, "storefront")
	foreign, _, _ := other.Generate("1", "admin", nil)
	_, err = m.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, _ := NewJWTManager("secret", time.Hour, "someone-else")
	token, _, _ := wrongIssuer.Generate("1", "admin", nil)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _ := NewJWTManager("secret", -time.Minute, "storefront")
	token, _, _ = expired.Generate("1", "admin", nil)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Issuer: "storefront"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type checkerFunc func(ctx context.Context, username, password string) (*UserDetails, error)

func (f checkerFunc) Login(ctx context.Context, username, password string) (*UserDetails, error) {
	return f(ctx, username, password)
}

func TestAuthService_Authenticate(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour, "storefront")
	require.NoError(t, err)

	upstreamErr := errors.New("upstream down")
	svc := NewAuthService(checkerFunc(func(_ context.Context, username, password string) (*UserDetails, error) {
		switch {
		case username == "down":
			return nil, upstreamErr
		case password != "secret":
			return nil, ErrInvalidCredentials
		case username == "manager":
			return &UserDetails{UserID: "2", Username: username, Role: "user"}, nil
		default:
			return &UserDetails{UserID: "1", Username: username, Role: "Admin"}, nil
		}
	}), m)

	ctx := context.Background()

	session, err := svc.Authenticate(ctx, "  admin ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	claims, err := m.Validate(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{RoleAdmin}, claims.Roles)

	_, err = svc.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "manager", "secret")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = svc.Authenticate(ctx, "down", "secret")
	assert.ErrorIs(t, err, upstreamErr)
}
