package web

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all web GUI routes on r.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(r chi.Router, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Screens answer GET and HEAD. Every other GET path falls through to the
	// public listing.
	for _, path := range []string{"/", "/login", "/admin"} {
		r.Get(path, h.Page)
		r.Head(path, h.Page)
	}
	r.NotFound(h.fallback)

	r.Group(func(r chi.Router) {
		r.Use(requireCSRF)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)
			r.Post("/admin/agendas", h.CreateAgenda)
			r.Post("/admin/agendas/{id}", h.UpdateAgenda)
			r.Post("/admin/agendas/{id}/delete", h.DeleteAgenda)
		})
	})

	r.With(h.requireSession).Get("/admin/agendas/{id}/delete", h.ConfirmDelete)
	r.With(h.requireSession).Head("/admin/agendas/{id}/delete", h.ConfirmDelete)
}

// fallback renders the listing for unknown GET paths.
func (h *Handler) fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	h.Page(w, r)
}
