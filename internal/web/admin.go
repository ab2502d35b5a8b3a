package web

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/sessions"

	"github.com/denbitaro/nikki/internal/apperr"
	"github.com/denbitaro/nikki/internal/diary"
	"github.com/denbitaro/nikki/internal/diaryservice"
	"github.com/denbitaro/nikki/internal/page"
)

// Handler holds the admin and public route handlers.
type Handler struct {
	svc      *diaryservice.Service
	cfg      Config
	sessions *sessions.CookieStore
	hrefRe   *regexp.Regexp
}

// NewHandler creates a new Handler.
func NewHandler(svc *diaryservice.Service, cfg Config) *Handler {
	return &Handler{
		svc:      svc,
		cfg:      cfg,
		sessions: newSessionStore(cfg.SessionKey),
		hrefRe:   diary.HrefPattern(cfg.ContentHref),
	}
}

type loginView struct {
	Error string
}

type entryRow struct {
	DateDisp string
	Title    string
	Href     string
}

type adminView struct {
	ListPageHref string
	Edited       bool
	Deleted      bool
	Editing      bool
	Edit         *diaryservice.EditData
	Today        string
	Entries      []entryRow
}

type doneView struct {
	Href         string
	ListPageHref string
}

// Admin handles GET /admin: login form, logout, the entry table with the
// create form, or the edit form when ?edit=1&href=... names a known entry.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("logout") == "1" {
		if err := h.clearSession(w, r); err != nil {
			slog.Warn("logout: clear session failed", slog.String("error", err.Error()))
		}
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	if !h.authed(r) {
		renderTemplate(w, http.StatusOK, "login", loginView{})
		return
	}

	view := adminView{
		ListPageHref: h.cfg.ListPageHref,
		Edited:       q.Get("edited") == "1",
		Deleted:      q.Get("deleted") == "1",
		Today:        time.Now().Format("2006-01-02"),
	}

	if q.Get("edit") == "1" {
		href := q.Get("href")
		if diary.ValidateHref(href, h.hrefRe) == nil {
			edit, err := h.svc.EditData(r.Context(), href)
			switch {
			case err == nil:
				view.Editing = true
				view.Edit = edit
			case errors.Is(err, apperr.ErrNotFound):
				// Unknown record: silently fall back to create mode.
			default:
				slog.Error("edit data failed", slog.String("href", href), slog.String("error", err.Error()))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}
	}

	entries, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("list entries failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	for _, e := range entries {
		view.Entries = append(view.Entries, entryRow{
			DateDisp: e.DateDisp,
			Title:    page.UnescapeTitle(e.Title),
			Href:     e.Href,
		})
	}

	renderTemplate(w, http.StatusOK, "admin", view)
}

// AdminSubmit handles POST /admin with a mode field of
// login|create|update|delete.
func (h *Handler) AdminSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	mode := r.PostFormValue("mode")
	if mode == "login" {
		h.login(w, r)
		return
	}

	if !h.authed(r) {
		renderTemplate(w, http.StatusOK, "login", loginView{})
		return
	}

	switch mode {
	case "create":
		h.create(w, r)
	case "update":
		h.update(w, r)
	case "delete":
		h.delete(w, r)
	default:
		http.Error(w, "不明な操作です。", http.StatusBadRequest)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	password := r.PostFormValue("password")
	ok := h.cfg.AuthOpen ||
		subtle.ConstantTimeCompare([]byte(h.cfg.Password), []byte(password)) == 1
	if !ok {
		renderTemplate(w, http.StatusOK, "login", loginView{Error: "パスワードが違います。"})
		return
	}
	if err := h.setAuthed(w, r); err != nil {
		slog.Error("login: save session failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.PostFormValue("title"))
	dateISO := strings.TrimSpace(r.PostFormValue("date"))
	if dateISO == "" {
		dateISO = time.Now().Format("2006-01-02")
	}
	body := r.PostFormValue("body")

	entry, err := h.svc.Create(r.Context(), title, dateISO, body)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			http.Error(w, "タイトルと日付は必須です。", http.StatusBadRequest)
			return
		}
		slog.Error("create entry failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, http.StatusOK, "done", doneView{
		Href:         entry.Href,
		ListPageHref: h.cfg.ListPageHref,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	href := r.PostFormValue("href")
	if err := diary.ValidateHref(href, h.hrefRe); err != nil {
		http.Error(w, "不正な記事パスです。", http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.PostFormValue("title"))
	dateISO := strings.TrimSpace(r.PostFormValue("date"))
	if dateISO == "" {
		dateISO = time.Now().Format("2006-01-02")
	}
	body := r.PostFormValue("body")

	if err := h.svc.Update(r.Context(), href, title, dateISO, body); err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalid):
			http.Error(w, "タイトルと日付は必須です。", http.StatusBadRequest)
		case errors.Is(err, apperr.ErrNotFound):
			http.Error(w, "記事が見つかりません。", http.StatusNotFound)
		default:
			slog.Error("update entry failed", slog.String("href", href), slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, "/admin?edited=1", http.StatusFound)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	href := r.PostFormValue("href")
	if err := diary.ValidateHref(href, h.hrefRe); err != nil {
		http.Error(w, "不正な記事パスです。", http.StatusBadRequest)
		return
	}
	if err := h.svc.Delete(r.Context(), href); err != nil {
		slog.Error("delete entry failed", slog.String("href", href), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin?deleted=1", http.StatusFound)
}
