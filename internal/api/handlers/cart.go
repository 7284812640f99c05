package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sobirov-market/storefront/internal/api/middleware"
	"github.com/sobirov-market/storefront/internal/domain/clientstore"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// CartHandler корзина, избранное и язык сессии
type CartHandler struct {
	carts  *services.CartService
	logger interfaces.LoggerPort
}

func NewCartHandler(carts *services.CartService, logger interfaces.LoggerPort) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type languageRequest struct {
	Language string `json:"language"`
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, data, nil)
}

// Cart godoc
// @Summary      Корзина сессии
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Клиентская сессия"
// @Success      200  {object}  response
// @Router       /api/v1/cart [get]
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Cart(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, view, err)
}

// AddToCart godoc
// @Summary      Добавить товар в корзину
// @Description  Повторное добавление того же id ничего не меняет и возвращает уведомление exists
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  clientstore.Item  true  "Товар"
// @Success      200  {object}  response
// @Router       /api/v1/cart [post]
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var item clientstore.Item
	if err := decodeJSON(r, &item); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	view, err := h.carts.AddToCart(r.Context(), middleware.SessionID(r.Context()), item)
	h.respond(w, r, view, err)
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.RemoveFromCart(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

// UpdateQuantity количество меньше 1 отклоняется с уведомлением rejected
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	view, err := h.carts.UpdateQuantity(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"), req.Quantity)
	h.respond(w, r, view, err)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.ClearCart(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, view, err)
}

func (h *CartHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Favorites(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, view, err)
}

// AddFavorite добавляет товар в избранное; с ?toggle=true повторный вызов убирает его
func (h *CartHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var item clientstore.Item
	if err := decodeJSON(r, &item); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	sessionID := middleware.SessionID(r.Context())
	if r.URL.Query().Get("toggle") == "true" {
		view, err := h.carts.ToggleFavorite(r.Context(), sessionID, item)
		h.respond(w, r, view, err)
		return
	}
	view, err := h.carts.AddFavorite(r.Context(), sessionID, item)
	h.respond(w, r, view, err)
}

func (h *CartHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.RemoveFavorite(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *CartHandler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.ClearFavorites(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, view, err)
}

func (h *CartHandler) Language(w http.ResponseWriter, r *http.Request) {
	lang, err := h.carts.Language(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, languageRequest{Language: string(lang)}, err)
}

func (h *CartHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	lang, err := h.carts.SetLanguage(r.Context(), middleware.SessionID(r.Context()), req.Language)
	h.respond(w, r, languageRequest{Language: string(lang)}, err)
}
