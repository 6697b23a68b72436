// internal/app/features/tenant/routes.go
package tenant

import "github.com/go-chi/chi/v5"

// Routes wires the tenant resources under the "/tenant" mount.
func Routes(h *Handler, r chi.Router) {
	r.Get("/api/complaints", h.ListComplaints)
	r.Post("/api/complaints", h.CreateComplaint)
	r.Get("/api/work-orders", h.ListWorkOrders)
	r.Get("/api/lockers", h.ListLockers)
	r.Post("/api/lockers/unlock", h.UnlockLocker)
	r.Get("/api/parking", h.ListParking)
	r.Post("/api/parking", h.CreateParkingPermit)
	r.Get("/lease/sign", h.SignLease)
}
