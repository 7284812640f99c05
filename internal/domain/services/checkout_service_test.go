package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sobirov-market/storefront/internal/adapters/logger"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/adapters/storage"
	"github.com/sobirov-market/storefront/internal/domain/clientstore"
	"github.com/sobirov-market/storefront/pkg/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+998 90 123-45-67": "998901234567",
		"998901234567":      "998901234567",
		"(90) 123 45 67":    "998901234567",
	}
	for in, want := range cases {
		got, ok := NormalizePhone(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "12345", "+7 912 345 67 89", "997901234567"} {
		_, ok := NormalizePhone(bad)
		assert.False(t, ok, bad)
	}
}

func TestCheckoutRequest_Validate(t *testing.T) {
	req := CheckoutRequest{Name: "  ", Phone: "901234567"}
	var verr *ValidationError
	require.ErrorAs(t, req.Validate(), &verr)
	assert.Equal(t, "name", verr.Field)

	req = CheckoutRequest{Name: "Aziz", Phone: "123"}
	require.ErrorAs(t, req.Validate(), &verr)
	assert.Equal(t, "phone", verr.Field)

	req = CheckoutRequest{Name: " Aziz ", Phone: "90 123 45 67"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Aziz", req.Name)
	assert.Equal(t, "998901234567", req.Phone)
}

func newCheckout(backend *fakeBackend) (*CheckoutService, *CartService, *recordingPublisher) {
	st := storage.NewMemoryClientStorage(0)
	pub := &recordingPublisher{}
	log := logger.NewNop()
	return NewCheckoutService(st, backend, tx.NewNopManager(), pub, log), NewCartService(st, pub, log), pub
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	checkout, _, _ := newCheckout(&fakeBackend{})

	_, err := checkout.Checkout(context.Background(), "s1", CheckoutRequest{Name: "Aziz", Phone: "901234567"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutService_PlacesOrderAndClearsCart(t *testing.T) {
	backend := &fakeBackend{}
	checkout, carts, pub := newCheckout(backend)
	ctx := context.Background()

	_, err := carts.AddToCart(ctx, "s1", clientstore.Item{ID: "a", Name: "Kabel", Price: "10,000"})
	require.NoError(t, err)
	_, err = carts.UpdateQuantity(ctx, "s1", "a", 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, "s1", clientstore.Item{ID: "b", Name: "Rozetka", Price: "5 500"})
	require.NoError(t, err)

	res, err := checkout.Checkout(ctx, "s1", CheckoutRequest{Name: "Aziz", Phone: "+998 90 123 45 67"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items)
	assert.InDelta(t, 25500, res.Total, 0.001)

	require.Len(t, backend.orders, 1)
	order := backend.orders[0]
	assert.Equal(t, "998901234567", order.Phone)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.InDelta(t, 10000, order.Items[0].Price, 0.001)

	view, err := carts.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, view.Count)

	last, err := checkout.LastOrder(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"order-1","status":"new"}`, string(last))

	assert.Contains(t, pub.types(), messaging.OrderPlacedEvent)
}

func TestCheckoutService_BackendFailureKeepsCart(t *testing.T) {
	backend := &fakeBackend{orderErr: errors.New("bad gateway")}
	checkout, carts, pub := newCheckout(backend)
	ctx := context.Background()

	_, err := carts.AddToCart(ctx, "s1", clientstore.Item{ID: "a", Price: "1"})
	require.NoError(t, err)

	_, err = checkout.Checkout(ctx, "s1", CheckoutRequest{Name: "Aziz", Phone: "901234567"})
	require.Error(t, err)

	view, err := carts.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.NotContains(t, pub.types(), messaging.OrderPlacedEvent)

	_, err = checkout.LastOrder(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutService_RejectsUnreadablePrice(t *testing.T) {
	backend := &fakeBackend{}
	checkout, carts, pub := newCheckout(backend)
	ctx := context.Background()

	_, err := carts.AddToCart(ctx, "s1", clientstore.Item{ID: "a", Name: "Kabel", Price: "10,000"})
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, "s1", clientstore.Item{ID: "b", Name: "Rozetka", Price: "abc"})
	require.NoError(t, err)

	_, err = checkout.Checkout(ctx, "s1", CheckoutRequest{Name: "Aziz", Phone: "901234567"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Field)
	assert.Contains(t, verr.Message, "b")

	assert.Empty(t, backend.orders)
	assert.NotContains(t, pub.types(), messaging.OrderPlacedEvent)

	view, err := carts.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)

	_, err = checkout.LastOrder(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}
