package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/domain/uniqueness"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

var (
	ErrReadOnlyResource   = errors.New("resource is read-only")
	ErrFieldNotCheckable  = errors.New("field cannot be checked for uniqueness")
	ErrEmptyCheckValue    = errors.New("value to check is empty")
	ErrEmptyResourceID    = errors.New("resource id is empty")
	ErrInvalidRequestBody = errors.New("request body is not a json object")
)

// uniqueFields поля, уникальность которых проверяет форма админки
var uniqueFields = map[catalogapi.Resource][]string{
	catalogapi.ResourceProducts:   {"nameUz", "nameRu", "sku"},
	catalogapi.ResourceCategories: {"nameUz", "nameRu"},
	catalogapi.ResourceBrands:     {"nameUz", "nameRu"},
	catalogapi.ResourceBanners:    {"titleUz", "titleRu"},
	catalogapi.ResourceSliders:    {"titleUz", "titleRu"},
	catalogapi.ResourceBlogs:      {"titleUz", "titleRu"},
}

// Invalidator сбрасывает локальные кэши каталога
type Invalidator func(ctx context.Context) error

// AdminService CRUD админки поверх внешнего API
type AdminService struct {
	backend     AdminBackend
	checker     *uniqueness.Checker
	publisher   EventPublisher
	invalidator Invalidator
	logger      interfaces.LoggerPort
}

// NewAdminService создает сервис. delay задержка проверки уникальности; invalidator может быть nil.
func NewAdminService(backend AdminBackend, delay time.Duration, publisher EventPublisher, invalidator Invalidator, logger interfaces.LoggerPort) *AdminService {
	probe := func(ctx context.Context, resource, field, value, exceptID string) (bool, error) {
		return backend.Exists(ctx, catalogapi.Resource(resource), field, value, exceptID)
	}
	return &AdminService{
		backend:     backend,
		checker:     uniqueness.NewChecker(delay, probe),
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger,
	}
}

// List список сущностей; параметры запроса передаются во внешний API как есть
func (s *AdminService) List(ctx context.Context, resource string, query url.Values) (json.RawMessage, error) {
	r, err := catalogapi.ParseResource(resource)
	if err != nil {
		return nil, err
	}
	raw, err := s.backend.List(ctx, r, query)
	return raw, mapBackendError(err)
}

// Get одна сущность
func (s *AdminService) Get(ctx context.Context, resource, id string) (json.RawMessage, error) {
	r, err := catalogapi.ParseResource(resource)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrEmptyResourceID
	}
	raw, err := s.backend.Get(ctx, r, id)
	return raw, mapBackendError(err)
}

// Create создает сущность
func (s *AdminService) Create(ctx context.Context, resource string, body json.RawMessage) (json.RawMessage, error) {
	r, err := s.writable(resource)
	if err != nil {
		return nil, err
	}
	if !isJSONObject(body) {
		return nil, ErrInvalidRequestBody
	}

	raw, err := s.backend.Create(ctx, r, body)
	if err != nil {
		return nil, mapBackendError(err)
	}
	s.changed(ctx, r, extractID(raw), "create")
	return raw, nil
}

// Update изменяет сущность
func (s *AdminService) Update(ctx context.Context, resource, id string, body json.RawMessage) (json.RawMessage, error) {
	r, err := s.writable(resource)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrEmptyResourceID
	}
	if !isJSONObject(body) {
		return nil, ErrInvalidRequestBody
	}

	raw, err := s.backend.Update(ctx, r, id, body)
	if err != nil {
		return nil, mapBackendError(err)
	}
	s.changed(ctx, r, id, "update")
	return raw, nil
}

// Delete удаляет сущность
func (s *AdminService) Delete(ctx context.Context, resource, id string) error {
	r, err := s.writable(resource)
	if err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyResourceID
	}

	if err := s.backend.Delete(ctx, r, id); err != nil {
		return mapBackendError(err)
	}
	s.changed(ctx, r, id, "delete")
	return nil
}

// Exists проверка уникальности поля формы. Более новая проверка того же поля в той же
// сессии отменяет предыдущую, а ее вызывающий получает uniqueness.ErrStale.
func (s *AdminService) Exists(ctx context.Context, sessionID, resource, field, value, exceptID string) (uniqueness.Result, error) {
	r, err := catalogapi.ParseResource(resource)
	if err != nil {
		return uniqueness.Result{}, err
	}
	if !checkable(r, field) {
		return uniqueness.Result{}, fmt.Errorf("%w: %s.%s", ErrFieldNotCheckable, r, field)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return uniqueness.Result{}, ErrEmptyCheckValue
	}

	key := uniqueness.Key{Session: sessionID, Resource: string(r), Field: field}
	res, err := s.checker.Check(ctx, key, value, exceptID)
	if err != nil {
		return res, mapBackendError(err)
	}
	return res, nil
}

func (s *AdminService) writable(resource string) (catalogapi.Resource, error) {
	r, err := catalogapi.ParseResource(resource)
	if err != nil {
		return "", err
	}
	if !r.Writable() {
		return "", fmt.Errorf("%w: %s", ErrReadOnlyResource, r)
	}
	return r, nil
}

// changed сбрасывает локальный кэш и сообщает воркерам об изменении каталога
func (s *AdminService) changed(ctx context.Context, r catalogapi.Resource, id, action string) {
	s.logger.InfoWithContext(ctx, "Изменение в админке",
		interfaces.LogField{Key: "resource", Value: string(r)},
		interfaces.LogField{Key: "id", Value: id},
		interfaces.LogField{Key: "action", Value: action},
	)
	if !r.IsCatalog() {
		return
	}

	if s.invalidator != nil {
		if err := s.invalidator(ctx); err != nil {
			s.logger.WarnWithContext(ctx, "Не удалось сбросить кэш каталога",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}
	s.publisher.PublishQuietly(ctx, messaging.CatalogChangedEvent, string(r), id, map[string]string{"action": action})
}

func checkable(r catalogapi.Resource, field string) bool {
	for _, f := range uniqueFields[r] {
		if f == field {
			return true
		}
	}
	return false
}

func mapBackendError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, catalogapi.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func isJSONObject(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}

// extractID достает id из ответа; бэкенд может вернуть объект в обертке {"data": ...}
func extractID(raw json.RawMessage) string {
	var body struct {
		ID   json.RawMessage `json:"id"`
		Data *struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	id := body.ID
	if len(id) == 0 && body.Data != nil {
		id = body.Data.ID
	}
	return strings.Trim(string(id), `"`)
}
