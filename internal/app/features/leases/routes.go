// internal/app/features/leases/routes.go
package leases

import "github.com/go-chi/chi/v5"

// Routes wires the lease table under the "/admin" mount.
func Routes(h *Handler, r chi.Router) {
	r.Get("/api/leases", h.List)
	r.Post("/api/leases/{id}/terminate", h.Terminate)
}
