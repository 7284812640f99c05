package services

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/adapters/logger"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_CreatePublishesCatalogChange(t *testing.T) {
	backend := &fakeBackend{createRes: json.RawMessage(`{"data":{"id":7,"nameUz":"Kabel"}}`)}
	pub := &recordingPublisher{}
	invalidated := 0
	svc := NewAdminService(backend, 0, pub, func(context.Context) error {
		invalidated++
		return nil
	}, logger.NewNop())

	_, err := svc.Create(context.Background(), "Products", json.RawMessage(`{"nameUz":"Kabel"}`))
	require.NoError(t, err)

	assert.Equal(t, 1, invalidated)
	require.Len(t, pub.events, 1)
	assert.Equal(t, publishedEvent{Type: messaging.CatalogChangedEvent, Resource: "products", ResourceID: "7"}, pub.events[0])
}

func TestAdminService_ReadOnlyAndUnknownResources(t *testing.T) {
	svc := NewAdminService(&fakeBackend{}, 0, &recordingPublisher{}, nil, logger.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "orders", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrReadOnlyResource)

	assert.ErrorIs(t, svc.Delete(ctx, "users", "1"), ErrReadOnlyResource)

	_, err = svc.List(ctx, "coupons", url.Values{})
	assert.ErrorIs(t, err, catalogapi.ErrUnknownResource)

	_, err = svc.List(ctx, "orders", url.Values{})
	assert.NoError(t, err)
}

func TestAdminService_UpdateAndDelete(t *testing.T) {
	backend := &fakeBackend{}
	pub := &recordingPublisher{}
	svc := NewAdminService(backend, 0, pub, nil, logger.NewNop())
	ctx := context.Background()

	_, err := svc.Update(ctx, "brands", "b1", json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, ErrInvalidRequestBody)

	_, err = svc.Update(ctx, "brands", "b1", json.RawMessage(`{"nameUz":"Legrand"}`))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "sliders", "s1"))
	assert.ErrorIs(t, svc.Delete(ctx, "sliders", ""), ErrEmptyResourceID)

	assert.Equal(t, []string{"b1"}, backend.updated)
	assert.Equal(t, []string{"s1"}, backend.deleted)
	assert.Equal(t, []string{messaging.CatalogChangedEvent, messaging.CatalogChangedEvent}, pub.types())
}

func TestAdminService_GetNotFound(t *testing.T) {
	backend := &fakeBackend{getErr: &catalogapi.StatusError{Op: "get", Status: 404}}
	svc := NewAdminService(backend, 0, &recordingPublisher{}, nil, logger.NewNop())

	_, err := svc.Get(context.Background(), "products", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_Exists(t *testing.T) {
	svc := NewAdminService(&fakeBackend{exists: true}, 0, &recordingPublisher{}, nil, logger.NewNop())
	ctx := context.Background()

	res, err := svc.Exists(ctx, "s1", "categories", "nameUz", " Kabellar ", "")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.NotZero(t, res.Seq)

	_, err = svc.Exists(ctx, "s1", "categories", "image", "x", "")
	assert.ErrorIs(t, err, ErrFieldNotCheckable)

	_, err = svc.Exists(ctx, "s1", "categories", "nameUz", "  ", "")
	assert.ErrorIs(t, err, ErrEmptyCheckValue)
}
