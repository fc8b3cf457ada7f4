// Package webhook реализует обработчик вебхуков платёжного провайдера.
//
// Контракт доставки: провайдер повторяет доставку при любом не-2xx ответе,
// поэтому нераспознанные и нерелевантные события подтверждаются успехом.
// Не-2xx возвращается только при реальной ошибке персистентности.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tradebio/profile-hub/internal/http/response"
	"github.com/tradebio/profile-hub/internal/lib/sl"
	"github.com/tradebio/profile-hub/internal/paypal"
)

// Service описывает применение нормализованного события.
type Service interface {
	ApplyEvent(ctx context.Context, ev paypal.NormalizedEvent) error
}

// Handler обработчик вебхуков.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP принимает событие провайдера.
//
// @Summary      Вебхук платёжного провайдера
// @Tags         billing
// @Accept       json
// @Produce      json
// @Success      200 {object} response.Response
// @Failure      500 {object} response.ErrorResponse
// @Router       /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	var event paypal.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// Мусор на входе подтверждается, иначе провайдер будет
		// доставлять его снова и снова.
		log.Warn("failed to unmarshal webhook payload", sl.Err(err))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{"ignored": true}))
		return
	}

	normalized := paypal.Normalize(event, time.Now().UTC())
	if err := h.service.ApplyEvent(r.Context(), normalized); err != nil {
		// Недоступность хранилища — единственный случай, когда доставку
		// нужно провалить, чтобы провайдер повторил её позже.
		log.Error("failed to apply webhook event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process event"))
		return
	}

	log.Info("webhook processed",
		slog.String("event", event.Type()),
		slog.String("intent", string(normalized.Intent)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"intent": string(normalized.Intent),
	}))
}
