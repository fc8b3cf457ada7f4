// Package profilehub предоставляет маршруты для основного приложения.
package profilehub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradebio/profile-hub/internal/config"
	"github.com/tradebio/profile-hub/internal/http/handlers/auth/login"
	"github.com/tradebio/profile-hub/internal/http/handlers/auth/register"
	"github.com/tradebio/profile-hub/internal/http/handlers/billing/attach"
	"github.com/tradebio/profile-hub/internal/http/handlers/billing/cancel"
	"github.com/tradebio/profile-hub/internal/http/handlers/billing/status"
	"github.com/tradebio/profile-hub/internal/http/handlers/billing/webhook"
	"github.com/tradebio/profile-hub/internal/http/handlers/profile/sitemap"
	"github.com/tradebio/profile-hub/internal/http/handlers/profile/state"
	"github.com/tradebio/profile-hub/internal/http/handlers/profile/update"
	"github.com/tradebio/profile-hub/internal/http/handlers/profile/view"
	"github.com/tradebio/profile-hub/internal/http/middlewarectx"
	authservice "github.com/tradebio/profile-hub/internal/services/auth"
	billingservice "github.com/tradebio/profile-hub/internal/services/billing"
	profileservice "github.com/tradebio/profile-hub/internal/services/profile"
	"github.com/tradebio/profile-hub/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, authService *authservice.AuthService, billingService *billingservice.Service, profileService *profileservice.Service, repo *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService))
		r.Post("/login", login.New(logger, authService))

		// Вебхук провайдера (без аутентификации)
		r.Post("/payments/webhook", webhook.New(logger, billingService).ServeHTTP)

		// Публичное состояние аккаунта
		r.Get("/profiles/{slug}/state", state.New(logger, profileService))

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/billing/subscription", attach.New(logger, billingService))
			r.Delete("/billing/subscription", cancel.New(logger, billingService))
			r.Get("/billing/status", status.New(logger, billingService))
			r.Put("/profiles/me", update.New(logger, profileService, repo))
		})
	})

	// Публичная поверхность страниц
	r.Get("/p/{slug}", view.New(logger, profileService))
	r.Get("/sitemap.xml", sitemap.New(logger, profileService, cfg.PublicBaseURL))

	r.Handle("/metrics", promhttp.Handler())
}
