// internal/app/features/errors/routes.go
package errors

import "github.com/go-chi/chi/v5"

// Routes mounts the error pages on r.
func Routes(h *Handler, r chi.Router) {
	r.Get("/forbidden", h.Forbidden)
	r.Get("/unauthorized", h.Unauthorized)
	r.Get("/error500", h.ServerError)
	r.NotFound(h.NotFound)
}
