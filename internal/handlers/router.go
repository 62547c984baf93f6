package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"spellbee/internal/config"
	"spellbee/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// RouterDeps はルーターが必要とするハンドラと設定
type RouterDeps struct {
	Config          *config.Config
	DB              *gorm.DB
	Logger          *slog.Logger
	AuthHandler     *AuthHandler
	PracticeHandler *PracticeHandler
	ProgressHandler *ProgressHandler
}

func NewRouter(deps RouterDeps) *chi.Mux {
	cfg := deps.Config
	logger := deps.Logger

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.AuthHandler.Register)
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/guest", deps.AuthHandler.GuestLogin)
		})

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			if cfg.Auth.Enabled {
				logger.Info("Applying JWT authentication middleware")
				r.Use(middleware.JWTAuthMiddleware(cfg))
			} else {
				logger.Warn("Authentication disabled: applying development X-User-ID middleware")
				r.Use(middleware.DevUserContextMiddleware)
			}

			r.Get("/me", deps.AuthHandler.GetMe)

			r.Route("/progress", func(r chi.Router) {
				r.Get("/", deps.ProgressHandler.GetSummary)
				r.Delete("/", deps.ProgressHandler.Reset)
			})

			r.Route("/practice", func(r chi.Router) {
				r.Get("/", deps.PracticeHandler.GetState)
				r.Post("/start", deps.PracticeHandler.Start)
				r.Post("/guess", deps.PracticeHandler.Guess)
				r.Post("/quit", deps.PracticeHandler.Quit)
				r.Get("/resume", deps.PracticeHandler.GetResumeOffer)
				r.Post("/resume", deps.PracticeHandler.Resume)
				r.Get("/audio", deps.PracticeHandler.GetAudio)
			})
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := deps.DB.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
