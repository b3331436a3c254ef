// Package server assembles the HTTP router.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lixing-Zhang/foodgram/backend/internal/handlers"
	"github.com/Lixing-Zhang/foodgram/backend/internal/middleware"
)

// Options configures the router
type Options struct {
	CORSOrigins     []string
	LoginRateLimit  int
	LoginRateWindow time.Duration
	RequestTimeout  time.Duration
}

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Users   *handlers.UserHandler
	Recipes *handlers.RecipeHandler
	Catalog *handlers.CatalogHandler
}

// NewRouter builds the chi router with middleware and all API routes
func NewRouter(h Handlers, authenticator middleware.Authenticator, opts Options, log *slog.Logger) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.Metrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TokenAuth(authenticator, log))

		// Auth endpoints
		r.Route("/auth/token", func(r chi.Router) {
			if opts.LoginRateLimit > 0 {
				r.With(httprate.LimitByIP(opts.LoginRateLimit, opts.LoginRateWindow)).Post("/login", h.Auth.Login)
			} else {
				r.Post("/login", h.Auth.Login)
			}
			r.With(middleware.RequireUser).Post("/logout", h.Auth.Logout)
		})

		// User endpoints
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/{userID}", h.Users.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/me", h.Users.Me)
				r.Delete("/me", h.Users.DeleteMe)
				r.Post("/set_password", h.Users.SetPassword)
				r.Get("/subscriptions", h.Users.Subscriptions)
				r.Post("/{userID}/subscribe", h.Users.Subscribe)
				r.Delete("/{userID}/subscribe", h.Users.Unsubscribe)
			})
		})

		// Catalog endpoints
		r.Get("/tags", h.Catalog.ListTags)
		r.Get("/tags/{tagID}", h.Catalog.GetTag)
		r.Get("/ingredients", h.Catalog.ListIngredients)
		r.Get("/ingredients/{ingredientID}", h.Catalog.GetIngredient)

		// Recipe endpoints
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.Recipes.List)
			r.Get("/{recipeID}", h.Recipes.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", h.Recipes.Create)
				r.Patch("/{recipeID}", h.Recipes.Update)
				r.Delete("/{recipeID}", h.Recipes.Delete)
				r.Post("/{recipeID}/favorite", h.Recipes.AddFavorite)
				r.Delete("/{recipeID}/favorite", h.Recipes.RemoveFavorite)
				r.Post("/{recipeID}/shopping_cart", h.Recipes.AddToCart)
				r.Delete("/{recipeID}/shopping_cart", h.Recipes.RemoveFromCart)
				r.Get("/download_shopping_cart", h.Recipes.DownloadShoppingCart)
			})
		})
	})

	return r
}
