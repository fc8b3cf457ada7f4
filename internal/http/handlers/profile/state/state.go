// Package state реализует публичную выдачу состояния аккаунта по slug.
//
// Публичная поверхность отдаёт одно из {not_found, active, trial, expired}:
// past_due сворачивается в active, детали оплаты наружу не утекают.
// Ответ всегда с Cache-Control: no-store, состояние зависит от текущего
// момента и кешироваться не должно.
package state

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

// Service описывает вычисление состояния аккаунта по slug.
type Service interface {
	Resolve(ctx context.Context, slug string, now time.Time) (models.StateInfo, error)
}

// New создает обработчик публичного состояния аккаунта.
//
// @Summary      Состояние аккаунта по slug
// @Tags         profiles
// @Produce      json
// @Param        slug path string true "slug страницы"
// @Success      200 {object} response.Response
// @Router       /profiles/{slug}/state [get]
func New(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.state.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		w.Header().Set("Cache-Control", "no-store")

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("slug is required"))
			return
		}

		info, err := service.Resolve(r.Context(), slug, time.Now().UTC())
		if err != nil {
			log.Error("failed to resolve account state", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to resolve state"))
			return
		}

		state := info.State
		if state == models.StatePastDue {
			state = models.StateActive
		}

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"state": state,
		}))
	}
}
