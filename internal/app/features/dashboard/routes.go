// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// TenantRoutes wires the tenant dashboard under the "/tenant" mount. The
// guard and lease gate are applied by the parent router.
func TenantRoutes(h *Handler, r chi.Router) {
	r.Get("/", h.ServeTenant)
	r.Get("/api/dashboard", h.ServeTenantAPI)
}

// AdminRoutes wires the admin landing under the "/admin" mount.
func AdminRoutes(h *Handler, r chi.Router) {
	r.Get("/", h.ServeAdmin)
}
