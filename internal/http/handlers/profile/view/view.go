// Package view реализует выдачу публичной страницы с шлюзом по состоянию
// аккаунта.
//
// active и trial отдаются как есть; past_due отдаётся с флагом
// payment_warning, видимость страницы не страдает. expired и not_found дают
// 503 с Retry-After и запретом индексации: страница временно недоступна,
// а не навсегда удалена, и поисковики не должны её выбрасывать из индекса.
package view

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tradebio/profile-hub/internal/http/response"
	"github.com/tradebio/profile-hub/internal/lib/sl"
	"github.com/tradebio/profile-hub/internal/models"
)

// Service описывает выдачу документа страницы вместе с состоянием.
type Service interface {
	PublicProfile(ctx context.Context, slug string, now time.Time) (*models.Profile, models.StateInfo, error)
}

// ContactURL ссылка в теле ответа о недоступной странице.
const ContactURL = "https://tradebio.example/support"

// New создает обработчик публичной страницы.
//
// @Summary      Публичная страница по slug
// @Tags         profiles
// @Produce      json
// @Param        slug path string true "slug страницы"
// @Success      200 {object} response.Response
// @Failure      503 {object} response.ErrorResponse
// @Router       /p/{slug} [get]
func New(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.view.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("slug is required"))
			return
		}

		doc, state, err := service.PublicProfile(r.Context(), slug, time.Now().UTC())
		if err != nil {
			log.Error("failed to load public profile", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to load profile"))
			return
		}

		if state.State == models.StateExpired || state.State == models.StateNotFound {
			w.Header().Set("Retry-After", "86400")
			w.Header().Set("X-Robots-Tag", "noindex")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]any{
				"status":  "unavailable",
				"message": "this page is temporarily unavailable",
				"contact": ContactURL,
			})
			return
		}

		payload := map[string]any{
			"profile": doc,
			"state":   state.State,
		}
		if state.State == models.StatePastDue {
			payload["state"] = models.StateActive
			payload["payment_warning"] = true
		}

		render.JSON(w, r, response.StatusOKWithData(payload))
	}
}
