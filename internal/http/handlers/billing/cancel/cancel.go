// Package cancel реализует отмену подписки: сначала у провайдера,
// затем в локальной записи.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tradebio/profile-hub/internal/http/middlewarectx"
	"github.com/tradebio/profile-hub/internal/http/response"
	"github.com/tradebio/profile-hub/internal/lib/sl"
	"github.com/tradebio/profile-hub/internal/services/billing"
	"github.com/tradebio/profile-hub/internal/storage/repository"
)

// Request тело запроса отмены.
type Request struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
}

// Service описывает операцию отмены подписки.
type Service interface {
	Cancel(ctx context.Context, accountUID, subscriptionID string) error
}

// New создает обработчик отмены подписки.
//
// @Summary      Отмена подписки
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body Request true "идентификатор подписки"
// @Success      200 {object} response.Response
// @Failure      502 {object} response.ErrorResponse
// @Router       /billing/subscription [delete]
func New(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.billing.cancel.New"

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

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		if err := service.Cancel(r.Context(), accountUID, req.SubscriptionID); err != nil {
			switch {
			case errors.Is(err, billing.ErrProviderUnavailable):
				log.Error("provider refused cancellation", sl.Err(err))
				render.Status(r, http.StatusBadGateway)
				render.JSON(w, r, response.Error("payment provider unavailable"))
			case errors.Is(err, repository.ErrRecordNotFound):
				log.Warn("no matching subscription record", sl.Err(err))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("subscription not found"))
			default:
				log.Error("failed to cancel subscription", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel subscription"))
			}
			return
		}
		log.Info("subscription cancelled", slog.String("subscription_id", req.SubscriptionID))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"subscription_id": req.SubscriptionID,
			"status":          "inactive",
		}))
	}
}
