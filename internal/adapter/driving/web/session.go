package web

import (
	"context"
	"net/http"

	"github.com/ericfisherdev/agendahub/internal/domain/model"
)

const sessionCookieName = "agenda_session"

type sessionCtxKey struct{}

// currentSession resolves the session cookie against the stored session.
func (h *Handler) currentSession(r *http.Request) (*model.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}
	return h.sessions.Authenticate(r.Context(), cookie.Value)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, s *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

// requireSession guards the dashboard's mutating routes the same way
// Navigate guards the dashboard page.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.currentSession(r)
		if !ok {
			nav := Navigate(string(RouteAdmin), false)
			h.setFlash(w, *nav.Flash)
			http.Redirect(w, r, nav.RedirectTo, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, session)))
	})
}

// sessionFrom returns the session stored by requireSession.
func sessionFrom(ctx context.Context) *model.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*model.Session)
	return s
}
