// Package update реализует сохранение документа страницы владельцем.
package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tradebio/profile-hub/internal/http/middlewarectx"
	"github.com/tradebio/profile-hub/internal/http/response"
	"github.com/tradebio/profile-hub/internal/lib/sl"
	"github.com/tradebio/profile-hub/internal/models"
)

// Link одна ссылка в запросе.
type Link struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// Request тело запроса сохранения страницы.
type Request struct {
	DisplayName string `json:"display_name" validate:"required"`
	Headline    string `json:"headline"`
	Phone       string `json:"phone"`
	Links       []Link `json:"links" validate:"dive"`
}

// Service описывает сохранение документа страницы.
type Service interface {
	Save(ctx context.Context, p models.Profile) error
}

// AccountLookup возвращает аккаунт по UID, нужен для slug страницы.
type AccountLookup interface {
	GetAccountByUID(ctx context.Context, uid string) (*models.Account, error)
}

// New создает обработчик сохранения страницы.
//
// @Summary      Сохранение публичной страницы
// @Tags         profiles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body Request true "документ страницы"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.ErrorResponse
// @Router       /profiles/me [put]
func New(log *slog.Logger, service Service, accounts AccountLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.update.New"

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

		acc, err := accounts.GetAccountByUID(r.Context(), accountUID)
		if err != nil {
			log.Error("failed to load account", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to save profile"))
			return
		}

		links := make([]models.ProfileLink, 0, len(req.Links))
		for _, l := range req.Links {
			links = append(links, models.ProfileLink{Title: l.Title, URL: l.URL})
		}

		p := models.Profile{
			AccountUID:  accountUID,
			Slug:        acc.Slug,
			DisplayName: req.DisplayName,
			Headline:    req.Headline,
			Phone:       req.Phone,
			Links:       links,
			UpdatedAt:   time.Now().UTC(),
		}
		if err := service.Save(r.Context(), p); err != nil {
			log.Error("failed to save profile", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to save profile"))
			return
		}
		log.Info("profile saved", slog.String("slug", acc.Slug))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"slug": acc.Slug,
		}))
	}
}
