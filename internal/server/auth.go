package server

import (
	"errors"
	"net/http"

	"github.com/fahroox/attendance/internal/attendance"
)

var errNoSession = errors.New("no valid session")

const sessionCookieName = "session"

type authSession struct {
	ID   string // session token, also keys the location controller registry
	User attendance.AuthUser
}

// sessionFromRequest reads the session cookie and resolves the user it
// belongs to.
func sessionFromRequest(r *http.Request, store Store) (authSession, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return authSession{}, errNoSession
	}

	u, err := store.UserBySession(r.Context(), cookie.Value)
	if err != nil {
		return authSession{}, errNoSession
	}

	return authSession{
		ID: cookie.Value,
		User: attendance.AuthUser{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
		},
	}, nil
}

func setSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
