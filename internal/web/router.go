// Package web implements the admin screen and the public list page.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/denbitaro/nikki/internal/diaryservice"
)

// Config carries the site and auth settings the handlers need.
type Config struct {
	SiteTitle          string
	SiteNote           string
	ContentDir         string
	ContentHref        string // link prefix for generated detail pages
	ListStylesheetHref string
	ListPageHref       string
	AuthOpen           bool
	Password           string
	SessionKey         string
}

// NewRouter creates a chi router with the public list, the admin screen,
// and static serving of the generated detail pages.
func NewRouter(svc *diaryservice.Service, cfg Config) chi.Router {
	h := NewHandler(svc, cfg)

	r := chi.NewRouter()

	r.Get("/", h.PublicList)
	r.Get("/admin", h.Admin)
	r.Post("/admin", h.AdminSubmit)

	// The detail pages are plain files; serve them as-is.
	files := http.StripPrefix("/"+cfg.ContentHref+"/", http.FileServer(http.Dir(cfg.ContentDir)))
	r.Get("/"+cfg.ContentHref+"/*", files.ServeHTTP)

	return r
}
