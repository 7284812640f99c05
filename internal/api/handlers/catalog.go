package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// CatalogHandler обработчик запросов каталога витрины
type CatalogHandler struct {
	catalog *services.CatalogService
	logger  interfaces.LoggerPort
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalog *services.CatalogService, logger interfaces.LoggerPort) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// Categories godoc
// @Summary      Дерево категорий
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response
// @Router       /api/v1/categories [get]
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, http.StatusOK, h.catalog.Categories(r.Context()), nil)
}

// Brands godoc
// @Summary      Список брендов
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response
// @Router       /api/v1/brands [get]
func (h *CatalogHandler) Brands(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, http.StatusOK, h.catalog.Brands(r.Context()), nil)
}

// Products godoc
// @Summary      Страница товаров
// @Description  Параметры запроса передаются во внешний API как есть
// @Tags         catalog
// @Produce      json
// @Param        search      query  string  false  "Поиск"
// @Param        categoryId  query  string  false  "Категории через запятую"
// @Param        page        query  int     false  "Номер страницы"
// @Success      200  {object}  response
// @Router       /api/v1/products [get]
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.Products(r.Context(), r.URL.Query())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, page.Data, map[string]interface{}{
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

// Product godoc
// @Summary      Товар по id
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID товара"
// @Success      200  {object}  response
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/products/{id} [get]
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, product, nil)
}

// Content отдает блоги, баннеры или слайдеры
func (h *CatalogHandler) Content(resource catalogapi.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := h.catalog.Content(r.Context(), resource, r.URL.Query())
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}
		writeData(w, r, http.StatusOK, raw, nil)
	}
}
