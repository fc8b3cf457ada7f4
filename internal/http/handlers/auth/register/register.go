// Package register реализует обработчик регистрации аккаунта.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tradebio/profile-hub/internal/http/response"
	"github.com/tradebio/profile-hub/internal/lib/sl"
)

// Request тело запроса регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service описывает операцию регистрации.
type Service interface {
	Register(ctx context.Context, email, username, password string) (string, error)
}

// New создает обработчик регистрации.
//
// @Summary      Регистрация аккаунта
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body Request true "данные аккаунта"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.ErrorResponse
// @Router       /register [post]
func New(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.register.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

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

		uid, err := service.Register(r.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			log.Error("failed to register account", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register account"))
			return
		}
		log.Info("account registered", slog.String("account_uid", uid))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"account_uid": uid,
		}))
	}
}
