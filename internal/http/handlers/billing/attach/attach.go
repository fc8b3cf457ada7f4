// Package attach реализует привязку подписки провайдера к аккаунту
// вызывающего после одобрения оплаты на клиенте.
package attach

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
)

// Request тело запроса привязки.
type Request struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
}

// Service описывает операцию привязки подписки.
type Service interface {
	Attach(ctx context.Context, accountUID, subscriptionID string) error
}

// New создает обработчик привязки подписки.
//
// @Summary      Привязка подписки к аккаунту
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body Request true "идентификатор подписки"
// @Success      200 {object} response.Response
// @Failure      409 {object} response.ErrorResponse
// @Router       /billing/subscription [post]
func New(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.billing.attach.New"

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

		if err := service.Attach(r.Context(), accountUID, req.SubscriptionID); err != nil {
			if errors.Is(err, billing.ErrAlreadyAttached) {
				log.Warn("subscription already attached",
					slog.String("subscription_id", req.SubscriptionID))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("subscription already attached to another account"))
				return
			}
			log.Error("failed to attach subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to attach subscription"))
			return
		}
		log.Info("subscription attached", slog.String("subscription_id", req.SubscriptionID))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"subscription_id": req.SubscriptionID,
		}))
	}
}
