package handlers

import (
	"net/http"
	"strconv"

	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// multipartMemory часть формы, которая держится в памяти; остальное уходит во временные файлы
const multipartMemory = 8 << 20

// GalleryHandler медиа-галерея админки
type GalleryHandler struct {
	gallery *services.GalleryService
	logger  interfaces.LoggerPort
}

func NewGalleryHandler(gallery *services.GalleryService, logger interfaces.LoggerPort) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, logger: logger}
}

// List godoc
// @Summary      Файлы галереи
// @Tags         gallery
// @Produce      json
// @Security     BearerAuth
// @Param        folder  query  string  false  "Папка"
// @Param        token   query  string  false  "Токен следующей страницы"
// @Param        limit   query  int     false  "Размер страницы"
// @Success      200  {object}  response
// @Router       /api/v1/admin/gallery [get]
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 32)

	page, err := h.gallery.List(r.Context(), q.Get("folder"), q.Get("token"), int32(limit))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, page, nil)
}

// Upload godoc
// @Summary      Загрузить изображение
// @Tags         gallery
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file    formData  file    true   "Изображение"
// @Param        folder  formData  string  false  "Папка"
// @Success      201  {object}  response
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Router       /api/v1/admin/gallery [post]
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		handleError(w, r, h.logger, mapMultipartError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, h.logger, services.ErrEmptyFile)
		return
	}
	defer file.Close()

	obj, err := h.gallery.Upload(r.Context(), r.FormValue("folder"), header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusCreated, obj, nil)
}

// Delete удаляет объект по ключу из параметра key
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gallery.Delete(r.Context(), r.URL.Query().Get("key")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Presign свежая подписанная ссылка на объект
func (h *GalleryHandler) Presign(w http.ResponseWriter, r *http.Request) {
	u, err := h.gallery.Presign(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]string{"url": u}, nil)
}

// mapMultipartError отличает превышение лимита тела от битой формы
func mapMultipartError(err error) error {
	if isMaxBytes(err) {
		return services.ErrFileTooLarge
	}
	return services.ErrEmptyFile
}
