package catalogapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sobirov-market/storefront/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewDefault(srv.URL+"/", "svc-token", 5*time.Second)
}

func TestListCategories_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"id":"1","nameUz":"Kabel","nameRu":"Кабель","parentId":null,"order":1,"isActive":true},
			{"id":"2","nameUz":"Mis","nameRu":"Медь","parentId":"1","order":2,"isActive":true}
		]`))
	})

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.True(t, cats[0].IsTopLevel())
	require.NotNil(t, cats[1].ParentID)
	assert.Equal(t, "1", *cats[1].ParentID)
}

func TestListBrands_Envelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"b1","nameUz":"ABB","nameRu":"ABB","productCount":3}],"total":1,"page":1,"totalPages":1}`))
	})

	brands, err := c.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, 3, brands[0].ProductCount)
}

func TestListProducts_PassesQuery(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"data":[{"id":"p1","price":10000}],"total":30,"page":2,"totalPages":3}`))
	})

	page, err := c.ListProducts(context.Background(), url.Values{"categoryId": {"1,2"}, "page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, "1,2", got.Get("categoryId"))
	assert.Equal(t, 30, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 10000.0, page.Data[0].Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	})

	_, err := c.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
}

func TestGetProduct_WrappedAndPlain(t *testing.T) {
	wrapped := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if wrapped {
			_, _ = w.Write([]byte(`{"data":{"id":"p1","nameUz":"Kabel"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"p2","nameUz":"Sim"}`))
	})

	p, err := c.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	wrapped = false
	p, err = c.GetProduct(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Sim", p.NameUz)
}

func TestExists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/brands", r.URL.Path)
		assert.Equal(t, "abb", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`[{"id":"b1","nameUz":"ABB"},{"id":"b2","nameUz":"ABB Group"}]`))
	})

	ok, err := c.Exists(context.Background(), ResourceBrands, "nameUz", "abb", "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(context.Background(), ResourceBrands, "nameUz", "abb", "b1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Exists(context.Background(), ResourceBrands, "nameUz", "  ", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateOrder_SendsJSON(t *testing.T) {
	var order Order
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &order))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"o1"}`))
	})

	out, err := c.CreateOrder(context.Background(), &Order{
		Customer: "Ali",
		Phone:    "998901234567",
		Items:    []OrderLine{{ProductID: "a", Quantity: 2, Price: 10000}},
		Total:    20000,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"o1"}`, string(out))
	assert.Equal(t, "998901234567", order.Phone)
	assert.Len(t, order.Items, 1)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"x","user":{"id":7,"username":"admin","role":"admin"}}`))
	})

	u, err := c.Login(context.Background(), "admin", "right")
	require.NoError(t, err)
	assert.Equal(t, "7", u.UserID)
	assert.Equal(t, "admin", u.Role)

	_, err = c.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, security.ErrInvalidCredentials)
}

func TestParseResource(t *testing.T) {
	r, err := ParseResource("Brands")
	require.NoError(t, err)
	assert.Equal(t, ResourceBrands, r)
	assert.True(t, r.Writable())

	r, err = ParseResource("orders")
	require.NoError(t, err)
	assert.False(t, r.Writable())
	assert.False(t, r.IsCatalog())

	_, err = ParseResource("secrets")
	assert.ErrorIs(t, err, ErrUnknownResource)
}
