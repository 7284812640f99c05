package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sobirov-market/storefront/pkg/models"
)

// ListCategories GET /categories, плоский упорядоченный список без пагинации
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	b, err := c.do(ctx, "ListCategories", http.MethodGet, "/categories", nil, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[models.Category]("ListCategories", b)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// ListBrands GET /brands
func (c *Client) ListBrands(ctx context.Context) ([]models.Brand, error) {
	b, err := c.do(ctx, "ListBrands", http.MethodGet, "/brands", nil, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[models.Brand]("ListBrands", b)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// ListProducts GET /products с параметрами фильтра
func (c *Client) ListProducts(ctx context.Context, query url.Values) (*models.Page[models.Product], error) {
	b, err := c.do(ctx, "ListProducts", http.MethodGet, "/products", query, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[models.Product]("ListProducts", b)
}

// GetProduct GET /products/{id}
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	b, err := c.do(ctx, "GetProduct", http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	// Некоторые версии API заворачивают объект в {"data": ...}
	var wrapped struct {
		Data *models.Product `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	var p models.Product
	if err := decodeJSON("GetProduct", b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodePage[T any](op string, b []byte) (*models.Page[T], error) {
	page, err := models.DecodePage[T](b)
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return page, nil
}
