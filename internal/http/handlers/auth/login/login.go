// Package login реализует обработчик входа и выдачи JWT.
package login

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

// Request тело запроса входа.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service описывает операцию входа.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// New создает обработчик входа.
//
// @Summary      Вход и выдача JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body Request true "учётные данные"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.ErrorResponse
// @Router       /login [post]
func New(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.New"

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

		token, err := service.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			log.Error("failed to login", sl.Err(err))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		log.Info("user logged in", slog.String("username", req.Username))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"token": token,
		}))
	}
}
