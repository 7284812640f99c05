package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sobirov-market/storefront/internal/adapters/cache"
	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/adapters/logger"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/adapters/storage"
	"github.com/sobirov-market/storefront/internal/api/handlers"
	"github.com/sobirov-market/storefront/internal/api/middleware"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/internal/security"
	"github.com/sobirov-market/storefront/pkg/auth"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "sess-1"

// upstream внешний REST API каталога
type upstream struct {
	mu      sync.Mutex
	orders  []map[string]interface{}
	created []string
	queries []string
}

func (u *upstream) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"id":"1","nameUz":"Chiroqlar","nameRu":"Светильники","parentId":null,"isActive":true},
			{"id":"2","nameUz":"Lyustra","nameRu":"Люстры","parentId":"1","isActive":true},
			{"id":"3","nameUz":"Bra","nameRu":"Бра","parentId":"1","isActive":true},
			{"id":"4","nameUz":"Kabel","nameRu":"Кабель","parentId":null,"isActive":true}
		]`)
	})
	r.Get("/brands", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"id":"b1","nameUz":"Legrand","nameRu":"Legrand"}],"total":1,"page":1,"totalPages":1}`)
	})
	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.queries = append(u.queries, r.URL.RawQuery)
		u.mu.Unlock()
		if search := r.URL.Query().Get("search"); search != "" && !strings.EqualFold(search, "lampa") {
			io.WriteString(w, `{"data":[],"total":0,"page":1,"totalPages":0}`)
			return
		}
		io.WriteString(w, `{"data":[{"id":"p1","nameUz":"Lampa","price":10000,"images":["https://cdn.example.uz/p1.png"]}],"total":1,"page":1,"totalPages":1}`)
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "p1" {
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"data":{"id":"p1","nameUz":"Lampa","price":10000}}`)
	})
	r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.created = append(u.created, string(body))
		u.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"9","nameUz":"Yangi"}`)
	})
	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		var order map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&order)
		u.mu.Lock()
		u.orders = append(u.orders, order)
		u.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"order-1","status":"new"}`)
	})
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case req["username"] == "admin" && req["password"] == "secret":
			io.WriteString(w, `{"access_token":"upstream","user":{"id":1,"username":"admin","role":"admin"}}`)
		case req["username"] == "manager" && req["password"] == "secret":
			io.WriteString(w, `{"access_token":"upstream","user":{"id":2,"username":"manager","role":"user"}}`)
		default:
			http.Error(w, `{"message":"bad credentials"}`, http.StatusUnauthorized)
		}
	})
	return r
}

// memObjects объектное хранилище в памяти
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memObjects) List(_ context.Context, prefix, _ string, _ int32) (*interfaces.ObjectPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page := &interfaces.ObjectPage{}
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			page.Objects = append(page.Objects, interfaces.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return page, nil
}

func (m *memObjects) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return interfaces.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memObjects) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.local/media/" + key + "?sig=1", nil
}

type testEnv struct {
	server   *httptest.Server
	upstream *upstream
	jwt      *security.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNop()

	up := &upstream{}
	backend := httptest.NewServer(up.handler())
	t.Cleanup(backend.Close)

	client := catalogapi.NewDefault(backend.URL, "", 5*time.Second)
	cacheClient := cache.NewMemoryCache(time.Minute, 0)
	clientStorage := storage.NewMemoryClientStorage(time.Hour)
	t.Cleanup(func() { _ = clientStorage.Close() })
	publisher := messaging.NewEventPublisher(messaging.NewNoopMessaging(log), "storefront-events", log)

	gallery := services.NewGalleryService(&memObjects{objects: map[string][]byte{}}, cacheClient, publisher,
		services.GalleryOptions{MaxUploadSize: 1 << 20, PresignExpires: time.Hour}, log)
	loader := filter.NewLoader(client, cacheClient, time.Minute, log)
	catalog := services.NewCatalogService(client, loader, cacheClient, time.Minute, gallery, log)
	filters := services.NewFilterService(loader, catalog, time.Minute, 0, log)
	carts := services.NewCartService(clientStorage, publisher, log)
	checkout := services.NewCheckoutService(clientStorage, client, tx.NewNopManager(), publisher, log)
	admin := services.NewAdminService(client, 0, publisher, catalog.Invalidate, log)

	jwtManager, err := security.NewJWTManager("test-secret", time.Hour, "storefront")
	require.NoError(t, err)
	authService := security.NewAuthService(client, jwtManager)

	router := SetupRouter(Handlers{
		Catalog:  handlers.NewCatalogHandler(catalog, log),
		Filters:  handlers.NewFilterHandler(filters, log),
		Cart:     handlers.NewCartHandler(carts, log),
		Checkout: handlers.NewCheckoutHandler(checkout, log),
		Gallery:  handlers.NewGalleryHandler(gallery, log),
		Admin:    handlers.NewAdminHandler(admin, authService, nil, log),
	}, auth.ChainVerifier{jwtManager}, log, RouterOptions{
		CORSAllowedOrigins: []string{"*"},
		RequestTimeout:     5 * time.Second,
		BodyLimit:          2 << 20,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, upstream: up, jwt: jwtManager}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, header http.Header) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set(middleware.SessionIDHeader, testSession)
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (e *testEnv) json(t *testing.T, method, path, body string) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return e.do(t, method, path, r, nil)
}

func (e *testEnv) adminToken(t *testing.T) http.Header {
	t.Helper()
	token, _, err := e.jwt.Generate("1", "admin", []string{security.RoleAdmin})
	require.NoError(t, err)
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Head(env.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionHeaderIssuedWhenMissing(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/api/v1/cart")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.SessionIDHeader))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.json(t, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roots []struct {
		ID            string `json:"id"`
		SubCategories []struct {
			ID string `json:"id"`
		} `json:"subCategories"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &roots))
	require.Len(t, roots, 2)
	assert.Equal(t, "1", roots[0].ID)
	assert.Len(t, roots[0].SubCategories, 2)

	resp, body = env.json(t, http.MethodGet, "/api/v1/products?search=lampa", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total":1,"page":1,"totalPages":1}`, string(body.Meta))

	resp, _ = env.json(t, http.MethodGet, "/api/v1/products/p1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.json(t, http.MethodGet, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body.Error)
}

func TestFilterRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.json(t, http.MethodPost, "/api/v1/filters?page=shop&category=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		Filter struct {
			State struct {
				Categories    []string `json:"categories"`
				Subcategories []string `json:"subcategories"`
			} `json:"state"`
			Expanded []string `json:"expanded"`
		} `json:"filter"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, []string{"2"}, view.Filter.State.Subcategories)
	assert.Contains(t, view.Filter.Expanded, "1")

	resp, body = env.json(t, http.MethodPost, "/api/v1/filters/shop/categories/1/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, []string{"1"}, view.Filter.State.Categories)
	assert.ElementsMatch(t, []string{"2", "3"}, view.Filter.State.Subcategories)

	env.upstream.mu.Lock()
	last := env.upstream.queries[len(env.upstream.queries)-1]
	env.upstream.mu.Unlock()
	assert.Contains(t, last, "categoryId=")

	resp, _ = env.json(t, http.MethodPatch, "/api/v1/filters/shop", `{"search":"lampa"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.json(t, http.MethodPost, "/api/v1/filters/shop/clear", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.json(t, http.MethodGet, "/api/v1/filters/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.json(t, http.MethodPost, "/api/v1/filters", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartRoutes(t *testing.T) {
	env := newTestEnv(t)
	item := `{"id":"a","name":"Lampa","price":"10,000","image":"uploads/a.png"}`

	resp, _ := env.json(t, http.MethodPost, "/api/v1/cart", item)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.json(t, http.MethodPost, "/api/v1/cart", item)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart services.CartView
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assert.Equal(t, 1, cart.Count)
	require.Len(t, cart.Notices, 1)
	assert.Equal(t, "exists", string(cart.Notices[0].Kind))

	resp, _ = env.json(t, http.MethodPatch, "/api/v1/cart/a", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = env.json(t, http.MethodPatch, "/api/v1/cart/a", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, float64(30000), cart.Total)

	resp, _ = env.json(t, http.MethodPost, "/api/v1/cart", `{"id":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.json(t, http.MethodDelete, "/api/v1/cart/a", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assert.Equal(t, 0, cart.Count)
}

func TestFavoritesAndLanguage(t *testing.T) {
	env := newTestEnv(t)
	item := `{"id":"f1","name":"Bra","price":"5,000","image":""}`

	resp, _ := env.json(t, http.MethodPost, "/api/v1/favorites?toggle=true", item)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := env.json(t, http.MethodPost, "/api/v1/favorites?toggle=true", item)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var favs services.FavoritesView
	require.NoError(t, json.Unmarshal(body.Data, &favs))
	assert.Equal(t, 0, favs.Count)

	resp, body = env.json(t, http.MethodGet, "/api/v1/language", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"language":"uz"}`, string(body.Data))

	resp, body = env.json(t, http.MethodPut, "/api/v1/language", `{"language":"ru"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"language":"ru"}`, string(body.Data))

	_, body = env.json(t, http.MethodGet, "/api/v1/language", "")
	assert.JSONEq(t, `{"language":"ru"}`, string(body.Data))
}

func TestCheckoutRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.json(t, http.MethodPost, "/api/v1/checkout", `{"name":"Ali","phone":"+998 90 123 45 67"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "пустая корзина")

	_, _ = env.json(t, http.MethodPost, "/api/v1/cart", `{"id":"a","name":"Lampa","price":"10,000","image":""}`)

	resp, body := env.json(t, http.MethodPost, "/api/v1/checkout", `{"name":"Ali","phone":"12345"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", body.Error)
	assert.Equal(t, "phone", body.Field)

	resp, body = env.json(t, http.MethodPost, "/api/v1/checkout", `{"name":"Ali","phone":"+998 90 123 45 67","address":"Toshkent"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var res services.CheckoutResult
	require.NoError(t, json.Unmarshal(body.Data, &res))
	assert.Equal(t, float64(10000), res.Total)
	assert.JSONEq(t, `{"id":"order-1","status":"new"}`, string(res.Order))

	env.upstream.mu.Lock()
	require.Len(t, env.upstream.orders, 1)
	assert.Equal(t, "998901234567", env.upstream.orders[0]["phone"])
	env.upstream.mu.Unlock()

	_, body = env.json(t, http.MethodGet, "/api/v1/cart", "")
	var cart services.CartView
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assert.Equal(t, 0, cart.Count)

	resp, body = env.json(t, http.MethodGet, "/api/v1/orders/last", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"order-1","status":"new"}`, string(body.Data))
}

func TestAdminAuth(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.json(t, http.MethodGet, "/api/v1/admin/products", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.json(t, http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body.Error)

	resp, _ = env.json(t, http.MethodPost, "/api/v1/admin/login", `{"username":"manager","password":"secret"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.json(t, http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session security.Session
	require.NoError(t, json.Unmarshal(body.Data, &session))
	require.NotEmpty(t, session.AccessToken)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/admin/products", nil,
		http.Header{"Authorization": {"Bearer " + session.AccessToken}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.json(t, http.MethodGet, "/api/v1/admin/oauth/login", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/admin/products", strings.NewReader(`{"nameUz":"Yangi"}`), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"9","nameUz":"Yangi"}`, string(body.Data))
	env.upstream.mu.Lock()
	assert.Equal(t, []string{`{"nameUz":"Yangi"}`}, env.upstream.created)
	env.upstream.mu.Unlock()

	resp, _ = env.do(t, http.MethodPost, "/api/v1/admin/orders", strings.NewReader(`{"x":1}`), token)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/admin/products", strings.NewReader(`[1,2]`), token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/admin/unicorns", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/v1/admin/products/exists?field=nameUz&value=Chiroq", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Exists bool `json:"exists"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &res))
	assert.False(t, res.Exists)

	resp, body = env.do(t, http.MethodGet, "/api/v1/admin/products/exists?field=nameUz&value=lampa", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &res))
	assert.True(t, res.Exists)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/admin/products/exists?field=price&value=1", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func uploadBody(t *testing.T, filename, contentType string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("folder", "banners"))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestGalleryRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, ct := uploadBody(t, "hero.PNG", "image/png", []byte("\x89PNG fake"))
	header := token.Clone()
	header.Set("Content-Type", ct)
	resp, env1 := env.do(t, http.MethodPost, "/api/v1/admin/gallery", body, header)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var obj services.GalleryObject
	require.NoError(t, json.Unmarshal(env1.Data, &obj))
	assert.True(t, strings.HasPrefix(obj.Key, "banners/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.Contains(t, obj.URL, obj.Key)

	body, ct = uploadBody(t, "notes.txt", "text/plain", []byte("hello"))
	header = token.Clone()
	header.Set("Content-Type", ct)
	resp, _ = env.do(t, http.MethodPost, "/api/v1/admin/gallery", body, header)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp, env1 = env.do(t, http.MethodGet, "/api/v1/admin/gallery?folder=banners", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page services.GalleryPage
	require.NoError(t, json.Unmarshal(env1.Data, &page))
	assert.Len(t, page.Objects, 1)

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/admin/gallery?key="+obj.Key, nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/admin/gallery?key="+obj.Key, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBodyLimit(t *testing.T) {
	env := newTestEnv(t)

	big := `{"id":"a","name":"` + strings.Repeat("x", 2<<20) + `"}`
	resp, body := env.json(t, http.MethodPost, "/api/v1/cart", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "too_large", body.Error)
}

func TestFilterOpenPriceParams(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.json(t, http.MethodPost, "/api/v1/filters?page=shop&minPrice=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", body.Error)

	resp, _ = env.json(t, http.MethodPost, "/api/v1/filters?page=shop&maxPrice=NaN", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.json(t, http.MethodPost, "/api/v1/filters?page=shop&minPrice=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		Filter struct {
			State struct {
				PriceRange [2]float64 `json:"priceRange"`
			} `json:"state"`
		} `json:"filter"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, [2]float64{100, 100}, view.Filter.State.PriceRange)
}

func TestFilterReopenResets(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.json(t, http.MethodPost, "/api/v1/filters?page=shop&category=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.json(t, http.MethodPost, "/api/v1/filters/shop/brands/b1/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.json(t, http.MethodPost, "/api/v1/filters?page=shop&category=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		Filter struct {
			State struct {
				Categories []string `json:"categories"`
				Brands     []string `json:"brands"`
			} `json:"state"`
		} `json:"filter"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, []string{"1"}, view.Filter.State.Categories)
	assert.Empty(t, view.Filter.State.Brands)
}

func TestCheckoutUnreadablePrice(t *testing.T) {
	env := newTestEnv(t)

	_, _ = env.json(t, http.MethodPost, "/api/v1/cart", `{"id":"x","name":"Bra","price":"abc","image":""}`)

	resp, body := env.json(t, http.MethodPost, "/api/v1/checkout", `{"name":"Ali","phone":"+998 90 123 45 67"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", body.Error)
	assert.Equal(t, "items", body.Field)

	env.upstream.mu.Lock()
	assert.Empty(t, env.upstream.orders)
	env.upstream.mu.Unlock()
}
