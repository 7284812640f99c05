package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/api/handlers"
	"github.com/sobirov-market/storefront/internal/api/middleware"
	"github.com/sobirov-market/storefront/internal/security"
	"github.com/sobirov-market/storefront/pkg/auth"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers обработчики, которые монтирует роутер
type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Filters  *handlers.FilterHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Gallery  *handlers.GalleryHandler
	Admin    *handlers.AdminHandler
}

// RouterOptions настройки HTTP слоя
type RouterOptions struct {
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	BodyLimit          int64
	// ExposeMetrics отдавать /metrics на основном порту
	ExposeMetrics bool
}

// SetupRouter настраивает маршрутизатор
func SetupRouter(h Handlers, verifier interfaces.AuthPort, logger interfaces.LoggerPort, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	if opts.BodyLimit > 0 {
		r.Use(middleware.BodyLimit(opts.BodyLimit))
	}
	r.Use(middleware.CORS(opts.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if opts.ExposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session)

		// Каталог витрины
		r.Get("/categories", h.Catalog.Categories)
		r.Get("/brands", h.Catalog.Brands)
		r.Get("/products", h.Catalog.Products)
		r.Get("/products/{id}", h.Catalog.Product)
		r.Get("/blogs", h.Catalog.Content(catalogapi.ResourceBlogs))
		r.Get("/banners", h.Catalog.Content(catalogapi.ResourceBanners))
		r.Get("/sliders", h.Catalog.Content(catalogapi.ResourceSliders))

		// Фильтры страниц
		r.Route("/filters", func(r chi.Router) {
			r.Post("/", h.Filters.Open)
			r.Route("/{page}", func(r chi.Router) {
				r.Get("/", h.Filters.Get)
				r.Patch("/", h.Filters.Update)
				r.Delete("/", h.Filters.Close)
				r.Post("/categories/{id}/toggle", h.Filters.ToggleCategory)
				r.Post("/subcategories/{id}/toggle", h.Filters.ToggleSubcategory)
				r.Post("/brands/{id}/toggle", h.Filters.ToggleBrand)
				r.Post("/expanded/{id}/toggle", h.Filters.ToggleExpanded)
				r.Put("/bounds", h.Filters.SetBounds)
				r.Post("/clear", h.Filters.Clear)
			})
		})

		// Корзина, избранное, язык
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Cart)
			r.Post("/", h.Cart.AddToCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Patch("/{id}", h.Cart.UpdateQuantity)
			r.Delete("/{id}", h.Cart.RemoveFromCart)
		})
		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.Cart.Favorites)
			r.Post("/", h.Cart.AddFavorite)
			r.Delete("/", h.Cart.ClearFavorites)
			r.Delete("/{id}", h.Cart.RemoveFavorite)
		})
		r.Get("/language", h.Cart.Language)
		r.Put("/language", h.Cart.SetLanguage)

		// Оформление заказа
		r.Post("/checkout", h.Checkout.Checkout)
		r.Get("/orders/last", h.Checkout.LastOrder)

		// Админка
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Admin.Login)
			r.Get("/oauth/login", h.Admin.OAuthLogin)
			r.Get("/oauth/callback", h.Admin.OAuthCallback)

			r.Group(func(r chi.Router) {
				r.Use(auth.AuthMiddleware(verifier, logger))
				r.Use(auth.RequireRole(security.RoleAdmin))

				if h.Gallery != nil {
					r.Route("/gallery", func(r chi.Router) {
						r.Get("/", h.Gallery.List)
						r.Post("/", h.Gallery.Upload)
						r.Delete("/", h.Gallery.Delete)
						r.Get("/presign", h.Gallery.Presign)
					})
				}

				r.Route("/{resource}", func(r chi.Router) {
					r.Get("/", h.Admin.List)
					r.Post("/", h.Admin.Create)
					r.Get("/exists", h.Admin.Exists)
					r.Get("/{id}", h.Admin.Get)
					r.Put("/{id}", h.Admin.Update)
					r.Delete("/{id}", h.Admin.Delete)
				})
			})
		})
	})

	return r
}
