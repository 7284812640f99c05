package security

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrNotAdmin = errors.New("user is not an administrator")

// RoleAdmin роль, открывающая доступ к админке
const RoleAdmin = "admin"

// UserDetails пользователь, которого вернул внешний API после проверки пароля
type UserDetails struct {
	UserID   string
	Username string
	Role     string
}

// CredentialsChecker проверяет логин и пароль во внешнем API
type CredentialsChecker interface {
	Login(ctx context.Context, username, password string) (*UserDetails, error)
}

// Session выданный токен администратора
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

// AuthService выдает токены администраторам
type AuthService struct {
	checker CredentialsChecker
	jwt     *JWTManager
}

func NewAuthService(checker CredentialsChecker, jwt *JWTManager) *AuthService {
	return &AuthService{checker: checker, jwt: jwt}
}

// Authenticate проверяет учетные данные и выпускает токен только для администраторов
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.checker.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Role, RoleAdmin) {
		return nil, ErrNotAdmin
	}

	token, expiresAt, err := s.jwt.Generate(user.UserID, user.Username, []string{RoleAdmin})
	if err != nil {
		return nil, err
	}

	return &Session{AccessToken: token, ExpiresAt: expiresAt, Username: user.Username}, nil
}
