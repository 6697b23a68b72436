// internal/app/features/signin/routes.go
package signin

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/sign-in", h.ServeSignIn)
	r.Get("/callback", h.ServeCallback)
	return r
}
