// Package server assembles the HTTP router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moviecatalog/internal/auth"
	"moviecatalog/internal/config"
	"moviecatalog/internal/database"
	"moviecatalog/internal/handlers"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/middleware"
	"moviecatalog/internal/services"
	"moviecatalog/internal/utils"
)

// NewRouter wires services over store and returns the API handler.
func NewRouter(cfg *config.Config, store *database.Store) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(cfg.Security)
	if err != nil {
		return nil, err
	}

	accounts := services.NewAccountService(store, tokens, cfg.Security)
	favorites := services.NewFavoritesService(store)
	catalog := services.NewCatalogService(store, cfg.Catalog)
	reviews := services.NewReviewService(store)
	categories := services.NewCategoryService(store)

	authMiddleware := auth.NewMiddleware(tokens, accounts.CurrentUser)
	requireAuth := authMiddleware.RequireAuth

	userHandler := handlers.NewUserHandler(accounts, favorites)
	movieHandler := handlers.NewMovieHandler(catalog, reviews, cfg.Plex)
	categoryHandler := handlers.NewCategoryHandler(categories)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondMessage(w, "Not found - "+r.URL.Path, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondMessage(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/health", healthHandler(store))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(cfg.Server))
		r.Use(middleware.PrometheusMetrics)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Register)
			r.Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Put("/profile", userHandler.UpdateProfile)
				r.Put("/password", userHandler.ChangePassword)
				r.Delete("/", userHandler.DeleteProfile)
				r.Get("/favorites", userHandler.GetLikedMovies)
				r.Post("/favorites", userHandler.AddLikedMovie)
				r.Delete("/favorites", userHandler.DeleteLikedMovies)

				r.With(auth.RequireAdmin).Get("/", userHandler.GetUsers)
				r.With(auth.RequireAdmin).Delete("/{id}", userHandler.DeleteUser)
			})
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", movieHandler.GetMovies)
			r.Get("/rated/top", movieHandler.GetTopRated)
			r.Get("/random/all", movieHandler.GetRandom)
			r.Get("/{id}", movieHandler.GetMovie)
			r.With(requireAuth).Post("/{id}/reviews", movieHandler.AddReview)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, auth.RequireAdmin)
				r.Post("/", movieHandler.CreateMovie)
				r.Post("/import", movieHandler.ImportMovies)
				r.Put("/{id}", movieHandler.UpdateMovie)
				r.Delete("/{id}", movieHandler.DeleteMovie)
				r.Delete("/", movieHandler.DeleteAllMovies)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.GetCategories)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, auth.RequireAdmin)
				r.Post("/", categoryHandler.CreateCategory)
				r.Put("/{id}", categoryHandler.UpdateCategory)
				r.Delete("/{id}", categoryHandler.DeleteCategory)
			})
		})
	})

	return r, nil
}

func rateLimit(cfg config.ServerConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Ctx(r.Context()).Warn().Str("remote_addr", r.RemoteAddr).Msg("Rate limit exceeded")
			utils.RespondMessage(w, "Too many requests, please try again later", http.StatusTooManyRequests)
		}),
	)
}

func healthHandler(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := store.Ping(ctx); err != nil {
			logging.CtxErr(r.Context(), err).Msg("Health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
