package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/flinthills/movequote/internal/auth"
	"github.com/flinthills/movequote/internal/catalog"
)

const (
	sessionCookieName = "movequote_admin"
	adminSubject      = "admin"
)

type loginRequest struct {
	Secret string `json:"secret"`
}

func (s *server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	editor, err := s.app.Editor(req.Secret)
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid admin secret.")
		return
	case errors.Is(err, catalog.ErrUnsupportedOperation):
		writeError(w, http.StatusConflict, "Catalog editing needs a connection to the main database.")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "authentication error")
		return
	}

	s.mu.Lock()
	s.editor = editor
	s.mu.Unlock()

	s.setSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"admin": true})
}

// handleAdminLogout ends the admin session for every client: the editor is
// dropped, so old cookies stop working until the next login.
func (s *server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.editor = nil
	s.mu.Unlock()

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) setSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.sessions.Issue(adminSubject, s.now()),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *server) isAdmin(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	subject, ok := s.sessions.Verify(cookie.Value, s.now())
	return ok && subject == adminSubject
}

// requireAdmin rejects requests without a valid admin session, and requests
// made before any login in this process.
func (s *server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAdmin(r) || s.currentEditor() == nil {
			writeError(w, http.StatusUnauthorized, "Admin login required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}
