// internal/app/features/chat/routes.go
package chat

import (
	"github.com/dalemusser/ezraportal/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the chat proxy behind the per-client limiter.
func Routes(h *Handler, lim *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	if lim != nil {
		r.Use(lim.Middleware)
	}
	r.Post("/", h.ServeChat)
	return r
}
