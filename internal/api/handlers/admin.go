package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sobirov-market/storefront/internal/api/middleware"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/internal/security"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"golang.org/x/oauth2"
)

const oauthStateCookie = "storefront_oauth_state"

// OAuthProvider вход администратора через внешний OIDC провайдер
type OAuthProvider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
}

// AdminHandler CRUD сущностей каталога и вход в админку
type AdminHandler struct {
	admin  *services.AdminService
	auth   *security.AuthService
	oauth  OAuthProvider
	logger interfaces.LoggerPort
}

// NewAdminHandler создает обработчик; oauth может быть nil, тогда вход только по паролю
func NewAdminHandler(admin *services.AdminService, auth *security.AuthService, oauth OAuthProvider, logger interfaces.LoggerPort) *AdminHandler {
	return &AdminHandler{admin: admin, auth: auth, oauth: oauth, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login godoc
// @Summary      Вход администратора
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Учетные данные"
// @Success      200  {object}  response
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	session, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.WarnWithContext(r.Context(), "Неудачная попытка входа в админку",
			interfaces.LogField{Key: "username", Value: req.Username},
			interfaces.LogField{Key: "error", Value: err.Error()})
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.InfoWithContext(r.Context(), "Администратор вошел",
		interfaces.LogField{Key: "username", Value: session.Username})
	writeData(w, r, http.StatusOK, session, nil)
}

// OAuthLogin перенаправляет на страницу входа провайдера
func (h *AdminHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "Вход через провайдер отключен")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	http.Redirect(w, r, h.oauth.GetAuthURL(state), http.StatusFound)
}

// OAuthCallback обменивает код на токены провайдера
func (h *AdminHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "Вход через провайдер отключен")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, r, http.StatusBadRequest, "bad_request", "Неверный state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	token, err := h.oauth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.WarnWithContext(r.Context(), "Ошибка обмена кода авторизации",
			interfaces.LogField{Key: "error", Value: err.Error()})
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Не удалось войти")
		return
	}

	// для Keycloak в заголовке Authorization используется id_token
	accessToken := token.AccessToken
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		accessToken = idToken
	}
	writeData(w, r, http.StatusOK, security.Session{AccessToken: accessToken, ExpiresAt: token.Expiry}, nil)
}

// List godoc
// @Summary      Список сущностей
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "products, categories, brands, banners, sliders, blogs, orders, users"
// @Success      200  {object}  response
// @Router       /api/v1/admin/{resource} [get]
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	raw, err := h.admin.List(r.Context(), chi.URLParam(r, "resource"), r.URL.Query())
	h.respondRaw(w, r, http.StatusOK, raw, err)
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw, err := h.admin.Get(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	h.respondRaw(w, r, http.StatusOK, raw, err)
}

// Create godoc
// @Summary      Создать сущность
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Ресурс"
// @Success      201  {object}  response
// @Failure      405  {object}  errorResponse
// @Router       /api/v1/admin/{resource} [post]
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	raw, err := h.admin.Create(r.Context(), chi.URLParam(r, "resource"), body)
	h.respondRaw(w, r, http.StatusCreated, raw, err)
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	raw, err := h.admin.Update(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"), body)
	h.respondRaw(w, r, http.StatusOK, raw, err)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Delete(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Exists godoc
// @Summary      Проверка уникальности поля
// @Description  Проверка выполняется с задержкой; более новая проверка того же поля в сессии отменяет старую, та получает 409
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path   string  true   "Ресурс"
// @Param        field     query  string  true   "Поле"
// @Param        value     query  string  true   "Значение"
// @Param        exceptId  query  string  false  "ID редактируемой сущности"
// @Success      200  {object}  response
// @Failure      409  {object}  errorResponse
// @Router       /api/v1/admin/{resource}/exists [get]
func (h *AdminHandler) Exists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.admin.Exists(r.Context(), middleware.SessionID(r.Context()),
		chi.URLParam(r, "resource"), q.Get("field"), q.Get("value"), q.Get("exceptId"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, res, nil)
}

func (h *AdminHandler) respondRaw(w http.ResponseWriter, r *http.Request, status int, raw json.RawMessage, err error) {
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	writeData(w, r, status, raw, nil)
}

func readBody(r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return nil, errBadJSON
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
