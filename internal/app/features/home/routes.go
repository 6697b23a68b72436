package home

import "github.com/go-chi/chi/v5"

// Routes registers the public home endpoints on r.
func Routes(h *Handler, r chi.Router) {
	r.Get("/", h.ServeRoot)
	r.Post("/api/tour", h.ServeTour)
}
