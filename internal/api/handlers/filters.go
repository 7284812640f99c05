package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sobirov-market/storefront/internal/api/middleware"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// FilterHandler панель фильтра страниц витрины
type FilterHandler struct {
	filters *services.FilterService
	logger  interfaces.LoggerPort
}

func NewFilterHandler(filters *services.FilterService, logger interfaces.LoggerPort) *FilterHandler {
	return &FilterHandler{filters: filters, logger: logger}
}

func (h *FilterHandler) respond(w http.ResponseWriter, r *http.Request, view *services.FilterView, err error) {
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, view, map[string]interface{}{"pagination": view.Pagination})
}

// Open godoc
// @Summary      Открыть фильтр страницы
// @Description  Создает стор фильтра для страницы и применяет начальный выбор из URL
// @Tags         filters
// @Produce      json
// @Param        page         query  string  true   "Имя страницы витрины"
// @Param        category     query  string  false  "Начальная категория"
// @Param        subcategory  query  string  false  "Начальная подкатегория"
// @Param        brand        query  string  false  "Начальный бренд"
// @Param        minPrice     query  number  false  "Нижняя граница цены"
// @Param        maxPrice     query  number  false  "Верхняя граница цены"
// @Success      200  {object}  response
// @Router       /api/v1/filters [post]
func (h *FilterHandler) Open(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := filter.Selection{
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Brand:       q.Get("brand"),
	}

	bounds, err := boundsFromQuery(q)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	view, err := h.filters.Open(r.Context(), middleware.SessionID(r.Context()), q.Get("page"), sel, bounds, pageFromQuery(q))
	h.respond(w, r, view, err)
}

// Get текущее состояние фильтра
func (h *FilterHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.filters.Get(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

// Update godoc
// @Summary      Частичное обновление фильтра
// @Tags         filters
// @Accept       json
// @Produce      json
// @Param        page  path  string          true  "Имя страницы витрины"
// @Param        body  body  filter.Partial  true  "Изменяемые поля"
// @Success      200  {object}  response
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/filters/{page} [patch]
func (h *FilterHandler) Update(w http.ResponseWriter, r *http.Request) {
	var partial filter.Partial
	if err := decodeJSON(r, &partial); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	view, err := h.filters.Update(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), partial, pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

func (h *FilterHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	view, err := h.filters.ToggleCategory(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), chi.URLParam(r, "id"), pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

func (h *FilterHandler) ToggleSubcategory(w http.ResponseWriter, r *http.Request) {
	view, err := h.filters.ToggleSubcategory(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), chi.URLParam(r, "id"), pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

func (h *FilterHandler) ToggleBrand(w http.ResponseWriter, r *http.Request) {
	view, err := h.filters.ToggleBrand(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), chi.URLParam(r, "id"), pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

func (h *FilterHandler) ToggleExpanded(w http.ResponseWriter, r *http.Request) {
	view, err := h.filters.ToggleExpanded(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), chi.URLParam(r, "id"), pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

// SetBounds новые границы цены от страницы
func (h *FilterHandler) SetBounds(w http.ResponseWriter, r *http.Request) {
	var bounds services.PriceBounds
	if err := decodeJSON(r, &bounds); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	view, err := h.filters.SetBounds(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), bounds, pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

// Clear сброс фильтра
func (h *FilterHandler) Clear(w http.ResponseWriter, r *http.Request) {
	view, err := h.filters.Clear(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "page"), pageFromQuery(r.URL.Query()))
	h.respond(w, r, view, err)
}

// Close закрывает фильтр страницы при уходе с нее
func (h *FilterHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.filters.Close(middleware.SessionID(r.Context()), chi.URLParam(r, "page"))
	w.WriteHeader(http.StatusNoContent)
}

// boundsFromQuery границы цены из minPrice/maxPrice; nil, если ни одного нет
func boundsFromQuery(q url.Values) (*services.PriceBounds, error) {
	if !q.Has("minPrice") && !q.Has("maxPrice") {
		return nil, nil
	}
	var bounds services.PriceBounds
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"minPrice", &bounds.Min}, {"maxPrice", &bounds.Max}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s=%q", errBadPrice, p.name, raw)
		}
		*p.dst = v
	}
	return &bounds, nil
}
