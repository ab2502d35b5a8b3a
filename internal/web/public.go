package web

import (
	"log/slog"
	"net/http"

	"github.com/denbitaro/nikki/internal/page"
)

type publicRow struct {
	Title    string
	DateISO  string
	DateDisp string
	Href     string
}

type publicView struct {
	SiteTitle          string
	SiteNote           string
	ListStylesheetHref string
	Entries            []publicRow
}

// PublicList handles GET /: the read-only list page. Entries come out of
// the store already newest-first; an absent or malformed index renders an
// empty list.
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("public list failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	view := publicView{
		SiteTitle:          h.cfg.SiteTitle,
		SiteNote:           h.cfg.SiteNote,
		ListStylesheetHref: h.cfg.ListStylesheetHref,
	}
	for _, e := range entries {
		view.Entries = append(view.Entries, publicRow{
			Title:    page.UnescapeTitle(e.Title),
			DateISO:  e.DateISO,
			DateDisp: e.DateDisp,
			Href:     e.Href,
		})
	}

	renderTemplate(w, http.StatusOK, "public", view)
}
