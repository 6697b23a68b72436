// internal/app/features/tenant/lists.go
package tenant

import (
	"net/http"

	errorsfeature "github.com/dalemusser/ezraportal/internal/app/features/errors"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/dalemusser/ezraportal/internal/domain/models"
)

type complaintsData struct {
	Complaints []models.Complaint `json:"complaints"`
	Categories []string           `json:"categories"`
}

// ListComplaints serves GET /tenant/api/complaints.
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	list, err := h.Agg.Complaints(r.Context(), auth.CurrentSession(r))
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "load complaints", err)
		return
	}
	viewdata.JSON(w, http.StatusOK, complaintsData{Complaints: list, Categories: models.ComplaintCategories})
}

type workOrdersData struct {
	WorkOrders []models.WorkOrder `json:"work_orders"`
}

// ListWorkOrders serves GET /tenant/api/work-orders.
func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Agg.WorkOrders(r.Context(), auth.CurrentSession(r))
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "load work orders", err)
		return
	}
	viewdata.JSON(w, http.StatusOK, workOrdersData{WorkOrders: list})
}

type lockersData struct {
	Lockers  []models.Locker `json:"lockers"`
	Packages int             `json:"packages"`
}

// ListLockers serves GET /tenant/api/lockers.
func (h *Handler) ListLockers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Agg.Lockers(r.Context(), auth.CurrentSession(r))
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "load package information", err)
		return
	}
	viewdata.JSON(w, http.StatusOK, lockersData{Lockers: list, Packages: len(list)})
}

type parkingData struct {
	Permits   []models.ParkingPermit `json:"permits"`
	Remaining int                    `json:"remaining"`
}

// ListParking serves GET /tenant/api/parking.
func (h *Handler) ListParking(w http.ResponseWriter, r *http.Request) {
	list, err := h.Agg.Parking(r.Context(), auth.CurrentSession(r))
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "load parking permits", err)
		return
	}
	remaining := models.MaxGuestParkingPermits - len(list)
	if remaining < 0 {
		remaining = 0
	}
	viewdata.JSON(w, http.StatusOK, parkingData{Permits: list, Remaining: remaining})
}
