package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/models"
)

// fakeBackend внешний REST API в памяти
type fakeBackend struct {
	mu sync.Mutex

	cats     []models.Category
	brands   []models.Brand
	listErr  error
	products []models.Product
	queries  []url.Values
	byID     map[string]*models.Product
	content  json.RawMessage

	created   []json.RawMessage
	createRes json.RawMessage
	updated   []string
	deleted   []string
	exists    bool
	getErr    error

	orders   []*catalogapi.Order
	orderErr error
	calls    int
}

func (f *fakeBackend) ListCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]models.Category(nil), f.cats...), f.listErr
}

func (f *fakeBackend) ListBrands(context.Context) ([]models.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]models.Brand(nil), f.brands...), f.listErr
}

func (f *fakeBackend) ListProducts(_ context.Context, query url.Values) (*models.Page[models.Product], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.queries = append(f.queries, query)
	data := make([]models.Product, len(f.products))
	for i, p := range f.products {
		p.Images = append([]string(nil), p.Images...)
		data[i] = p
	}
	return &models.Page[models.Product]{Data: data, Total: len(data), Page: 1, TotalPages: 1}, nil
}

func (f *fakeBackend) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeBackend) GetProduct(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.byID[id]
	if !ok {
		return nil, &catalogapi.StatusError{Op: "get product", Status: 404}
	}
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	return &cp, nil
}

func (f *fakeBackend) List(context.Context, catalogapi.Resource, url.Values) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.content, nil
}

func (f *fakeBackend) Get(_ context.Context, _ catalogapi.Resource, id string) (json.RawMessage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return json.RawMessage(`{"id":"` + id + `"}`), nil
}

func (f *fakeBackend) Create(_ context.Context, _ catalogapi.Resource, body json.RawMessage) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, body)
	return f.createRes, nil
}

func (f *fakeBackend) Update(_ context.Context, _ catalogapi.Resource, id string, body json.RawMessage) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	return body, nil
}

func (f *fakeBackend) Delete(_ context.Context, _ catalogapi.Resource, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) Exists(context.Context, catalogapi.Resource, string, string, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeBackend) CreateOrder(_ context.Context, order *catalogapi.Order) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orders = append(f.orders, order)
	return json.RawMessage(`{"id":"order-1","status":"new"}`), nil
}

type publishedEvent struct {
	Type       string
	Resource   string
	ResourceID string
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishQuietly(_ context.Context, eventType, resource, resourceID string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Resource: resource, ResourceID: resourceID})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeObjects объектное хранилище в памяти
type fakeObjects struct {
	mu       sync.Mutex
	objects  map[string][]byte
	presigns int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) List(_ context.Context, prefix, _ string, _ int32) (*interfaces.ObjectPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &interfaces.ObjectPage{}
	for k, v := range f.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			page.Objects = append(page.Objects, interfaces.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return page, nil
}

func (f *fakeObjects) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return interfaces.ErrObjectNotFound
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presigns++
	return "https://s3.local/media/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeObjects) presignCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presigns
}

func category(id, parent string) models.Category {
	c := models.Category{ID: id, NameUz: "cat-" + id, IsActive: true}
	if parent != "" {
		c.ParentID = models.StrPtr(parent)
	}
	return c
}
