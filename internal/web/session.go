package web

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName   = "nikki_admin"
	sessionAuthed = "authed"
)

func newSessionStore(key string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// authed reports whether the request carries an authenticated session.
// Open mode has no gate at all.
func (h *Handler) authed(r *http.Request) bool {
	if h.cfg.AuthOpen {
		return true
	}
	sess, err := h.sessions.Get(r, sessionName)
	if err != nil {
		return false
	}
	v, _ := sess.Values[sessionAuthed].(bool)
	return v
}

func (h *Handler) setAuthed(w http.ResponseWriter, r *http.Request) error {
	sess, _ := h.sessions.Get(r, sessionName)
	sess.Values[sessionAuthed] = true
	return sess.Save(r, w)
}

func (h *Handler) clearSession(w http.ResponseWriter, r *http.Request) error {
	sess, _ := h.sessions.Get(r, sessionName)
	delete(sess.Values, sessionAuthed)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
