package handlers

import (
	"net/http"

	"github.com/sobirov-market/storefront/internal/api/middleware"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// CheckoutHandler оформление заказа
type CheckoutHandler struct {
	checkout *services.CheckoutService
	logger   interfaces.LoggerPort
}

func NewCheckoutHandler(checkout *services.CheckoutService, logger interfaces.LoggerPort) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// Checkout godoc
// @Summary      Оформить заказ из корзины
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  services.CheckoutRequest  true  "Форма заказа"
// @Success      201  {object}  response
// @Failure      400  {object}  errorResponse
// @Router       /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	res, err := h.checkout.Checkout(r.Context(), middleware.SessionID(r.Context()), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusCreated, res, nil)
}

// LastOrder последний заказ сессии
func (h *CheckoutHandler) LastOrder(w http.ResponseWriter, r *http.Request) {
	raw, err := h.checkout.LastOrder(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, raw, nil)
}
