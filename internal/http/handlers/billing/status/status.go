// Package status реализует выдачу биллингового статуса владельцу аккаунта.
// В отличие от публичной выдачи состояния здесь past_due не сворачивается:
// владелец должен видеть проблему с оплатой.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tradebio/profile-hub/internal/http/middlewarectx"
	"github.com/tradebio/profile-hub/internal/http/response"
	"github.com/tradebio/profile-hub/internal/lib/sl"
	"github.com/tradebio/profile-hub/internal/models"
)

// Service описывает выдачу статуса аккаунта.
type Service interface {
	Status(ctx context.Context, accountUID string, now time.Time) (models.StateInfo, error)
}

// New создает обработчик биллингового статуса.
//
// @Summary      Биллинговый статус аккаунта
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} response.Response
// @Failure      401 {object} response.ErrorResponse
// @Router       /billing/status [get]
func New(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.billing.status.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		accountUID, ok := r.Context().Value(middlewarectx.AccountUID).(string)
		if !ok || accountUID == "" {
			log.Error("missing account uid in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		info, err := service.Status(r.Context(), accountUID, time.Now().UTC())
		if err != nil {
			log.Error("failed to get billing status", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get billing status"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"state":     info.State,
			"days_left": info.DaysLeft,
		}))
	}
}
