// internal/app/features/session/routes.go
package session

import "github.com/go-chi/chi/v5"

// Routes registers the session endpoints on r.
func Routes(h *Handler, r chi.Router) {
	r.Get("/api/session", h.ServeSession)
	r.Get("/dashboard", h.ServeLanding)
}
