package server

import (
	"net/http"

	"github.com/google/uuid"
)

// session returns the caller's session id, issuing a cookie when there is none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(s.sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// existingSession never issues a cookie.
func (s *Server) existingSession(r *http.Request) string {
	cookie, err := r.Cookie(s.sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
