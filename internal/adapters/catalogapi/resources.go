package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sobirov-market/storefront/internal/security"
)

// Resource сущность бэкенда, которой управляет админка
type Resource string

const (
	ResourceProducts   Resource = "products"
	ResourceCategories Resource = "categories"
	ResourceBrands     Resource = "brands"
	ResourceBanners    Resource = "banners"
	ResourceSliders    Resource = "sliders"
	ResourceBlogs      Resource = "blogs"
	ResourceOrders     Resource = "orders"
	ResourceUsers      Resource = "users"
)

var ErrUnknownResource = errors.New("unknown resource")

var resources = map[Resource]bool{
	ResourceProducts:   true,
	ResourceCategories: true,
	ResourceBrands:     true,
	ResourceBanners:    true,
	ResourceSliders:    true,
	ResourceBlogs:      true,
	ResourceOrders:     false,
	ResourceUsers:      false,
}

// ParseResource проверяет имя ресурса из URL
func ParseResource(s string) (Resource, error) {
	r := Resource(strings.ToLower(s))
	if _, ok := resources[r]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, s)
	}
	return r, nil
}

// Writable сообщает, разрешено ли изменять ресурс (заказы и пользователи только читаются)
func (r Resource) Writable() bool {
	return resources[r]
}

// IsCatalog ресурсы, изменение которых влияет на закэшированный каталог витрины
func (r Resource) IsCatalog() bool {
	switch r {
	case ResourceProducts, ResourceCategories, ResourceBrands, ResourceBanners, ResourceSliders, ResourceBlogs:
		return true
	}
	return false
}

func resourcePath(r Resource, id string) string {
	if id == "" {
		return "/" + string(r)
	}
	return "/" + string(r) + "/" + url.PathEscape(id)
}

// List GET /{resource}; ответ отдается как есть
func (c *Client) List(ctx context.Context, r Resource, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, "List "+string(r), http.MethodGet, resourcePath(r, ""), query, nil)
}

// Get GET /{resource}/{id}
func (c *Client) Get(ctx context.Context, r Resource, id string) (json.RawMessage, error) {
	return c.do(ctx, "Get "+string(r), http.MethodGet, resourcePath(r, id), nil, nil)
}

// Create POST /{resource}
func (c *Client) Create(ctx context.Context, r Resource, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, "Create "+string(r), http.MethodPost, resourcePath(r, ""), nil, body)
}

// Update PUT /{resource}/{id}
func (c *Client) Update(ctx context.Context, r Resource, id string, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, "Update "+string(r), http.MethodPut, resourcePath(r, id), nil, body)
}

// Delete DELETE /{resource}/{id}
func (c *Client) Delete(ctx context.Context, r Resource, id string) error {
	_, err := c.do(ctx, "Delete "+string(r), http.MethodDelete, resourcePath(r, id), nil, nil)
	return err
}

// Exists проверяет, есть ли у ресурса запись с таким значением поля (без учета регистра).
// exceptID исключает редактируемую запись из проверки.
func (c *Client) Exists(ctx context.Context, r Resource, field, value, exceptID string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}

	b, err := c.do(ctx, "Exists "+string(r), http.MethodGet, resourcePath(r, ""), url.Values{"search": {value}}, nil)
	if err != nil {
		return false, err
	}

	page, err := decodePage[map[string]interface{}]("Exists "+string(r), b)
	if err != nil {
		return false, err
	}

	for _, item := range page.Data {
		if id, _ := item["id"].(string); exceptID != "" && id == exceptID {
			continue
		}
		if v, ok := item[field].(string); ok && strings.EqualFold(strings.TrimSpace(v), value) {
			return true, nil
		}
	}
	return false, nil
}

// OrderLine позиция заказа
type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order заказ, который отправляется в POST /orders
type Order struct {
	Customer string      `json:"customer"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address,omitempty"`
	Comment  string      `json:"comment,omitempty"`
	Items    []OrderLine `json:"items"`
	Total    float64     `json:"total"`
}

// CreateOrder POST /orders
func (c *Client) CreateOrder(ctx context.Context, order *Order) (json.RawMessage, error) {
	return c.do(ctx, "CreateOrder", http.MethodPost, "/orders", nil, order)
}

type loginResp struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID       interface{} `json:"id"`
		Username string      `json:"username"`
		Role     string      `json:"role"`
	} `json:"user"`
}

// Login POST /auth/login; реализует security.CredentialsChecker
func (c *Client) Login(ctx context.Context, username, password string) (*security.UserDetails, error) {
	body := map[string]string{"username": username, "password": password}

	b, err := c.do(ctx, "Login", http.MethodPost, "/auth/login", nil, body)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusBadRequest) {
			return nil, security.ErrInvalidCredentials
		}
		return nil, err
	}

	var out loginResp
	if err := decodeJSON("Login", b, &out); err != nil {
		return nil, err
	}

	var userID string
	if out.User.ID != nil {
		userID = fmt.Sprint(out.User.ID)
	}

	return &security.UserDetails{
		UserID:   userID,
		Username: out.User.Username,
		Role:     out.User.Role,
	}, nil
}

var _ security.CredentialsChecker = (*Client)(nil)
