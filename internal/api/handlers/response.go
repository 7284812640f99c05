package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/render"
	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/domain/clientstore"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/internal/domain/uniqueness"
	"github.com/sobirov-market/storefront/internal/security"
	apperrors "github.com/sobirov-market/storefront/internal/utils"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/utils"
)

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// response представляет структуру успешного ответа
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

var (
	errBadJSON  = errors.New("invalid json body")
	errBadPrice = errors.New("invalid price")
)

func writeData(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta interface{}) {
	render.Status(r, status)
	render.JSON(w, r, response{Success: true, Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: code, Code: status, Message: message})
}

// handleError сводит ошибки сервисов к HTTP статусам; внутренние ошибки логируются
func handleError(w http.ResponseWriter, r *http.Request, logger interfaces.LoggerPort, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "validation_error",
			Code:    http.StatusBadRequest,
			Message: verr.Message,
			Field:   verr.Field,
		})
		return
	}

	var upstream *catalogapi.StatusError
	switch {
	case errors.Is(err, uniqueness.ErrStale):
		writeError(w, r, http.StatusConflict, "stale", "Проверка вытеснена более новой")
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrFilterSessionNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrReadOnlyResource):
		writeError(w, r, http.StatusMethodNotAllowed, "read_only", err.Error())
	case errors.Is(err, services.ErrUnsupportedMediaType):
		writeError(w, r, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
	case errors.Is(err, services.ErrFileTooLarge), isMaxBytes(err):
		writeError(w, r, http.StatusRequestEntityTooLarge, "too_large", "Файл слишком большой")
	case errors.Is(err, errBadJSON),
		errors.Is(err, errBadPrice),
		errors.Is(err, apperrors.ErrEmptySessionID),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrEmptyFilterPage),
		errors.Is(err, services.ErrUnknownContent),
		errors.Is(err, services.ErrFieldNotCheckable),
		errors.Is(err, services.ErrEmptyCheckValue),
		errors.Is(err, services.ErrEmptyResourceID),
		errors.Is(err, services.ErrInvalidRequestBody),
		errors.Is(err, services.ErrEmptyFile),
		errors.Is(err, services.ErrEmptyObjectKey),
		errors.Is(err, clientstore.ErrEmptyItemID),
		errors.Is(err, catalogapi.ErrUnknownResource),
		errors.Is(err, catalogapi.ErrBadRequest):
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, security.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Неверный логин или пароль")
	case errors.Is(err, security.ErrNotAdmin):
		writeError(w, r, http.StatusForbidden, "forbidden", "Нет доступа к админке")
	case errors.Is(err, catalogapi.ErrUnauthorized), errors.As(err, &upstream):
		logger.ErrorWithContext(r.Context(), "Ошибка внешнего API",
			interfaces.LogField{Key: "path", Value: r.URL.Path},
			interfaces.LogField{Key: "error", Value: err.Error()})
		writeError(w, r, http.StatusBadGateway, "upstream_error", "Ошибка внешнего API")
	default:
		logger.ErrorWithContext(r.Context(), "Ошибка обработки запроса",
			interfaces.LogField{Key: "path", Value: r.URL.Path},
			interfaces.LogField{Key: "error", Value: err.Error()})
		writeError(w, r, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка")
	}
}

// decodeJSON читает тело запроса в v
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errBadJSON
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isMaxBytes(err) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errBadJSON
		}
		return errors.Join(errBadJSON, err)
	}
	return nil
}

// pageFromQuery пагинация товаров внутри вьюх фильтра: номер страницы в параметре p,
// потому что page там занят именем страницы витрины
func pageFromQuery(q url.Values) *utils.Pagination {
	page, _ := strconv.Atoi(q.Get("p"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return utils.NewPagination(page, limit, q.Get("sortBy"), q.Get("sortOrder"))
}

func isMaxBytes(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes)
}
