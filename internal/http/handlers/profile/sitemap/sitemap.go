// Package sitemap отдаёт sitemap.xml с видимыми страницами:
// открытый пробный период либо активная подписка.
package sitemap

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/tradebio/profile-hub/internal/lib/sl"
)

// Service описывает выборку видимых slug'ов.
type Service interface {
	VisibleSlugs(ctx context.Context) ([]string, error)
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// New создает обработчик sitemap.xml. baseURL — внешний адрес сервиса
// без завершающего слеша.
//
// @Summary      Карта сайта
// @Tags         profiles
// @Produce      xml
// @Success      200 {string} string
// @Router       /sitemap.xml [get]
func New(log *slog.Logger, service Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.sitemap.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		slugs, err := service.VisibleSlugs(r.Context())
		if err != nil {
			log.Error("failed to list visible slugs", sl.Err(err))
			http.Error(w, "failed to build sitemap", http.StatusInternalServerError)
			return
		}

		set := urlSet{
			Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
			URLs:  make([]urlEntry, 0, len(slugs)),
		}
		for _, slug := range slugs {
			set.URLs = append(set.URLs, urlEntry{Loc: baseURL + "/p/" + slug})
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		_, _ = w.Write([]byte(xml.Header))
		if err := xml.NewEncoder(w).Encode(set); err != nil {
			log.Error("failed to encode sitemap", sl.Err(err))
		}
	}
}
