// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type Handler struct {
	Agg *Aggregator
	Log *zap.Logger
}

func NewHandler(agg *Aggregator, logger *zap.Logger) *Handler {
	return &Handler{
		Agg: agg,
		Log: logger,
	}
}

type alert struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type card struct {
	Title       string `json:"title"`
	Value       *int   `json:"value,omitempty"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Enabled     bool   `json:"enabled"`
}

type tenantData struct {
	viewdata.BaseVM
	Welcome alert    `json:"welcome"`
	Cards   []card   `json:"cards"`
	Board   Snapshot `json:"dashboard"`
}

type adminData struct {
	viewdata.BaseVM
	Links []link `json:"links"`
}

type link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// load starts the fetches and waits up to the dashboard wait (or the
// "wait" query parameter in milliseconds) before snapshotting.
func (h *Handler) load(r *http.Request, sess *auth.Session) Snapshot {
	board := h.Agg.Load(r.Context(), sess)

	wait := timeouts.Dashboard()
	if v := r.URL.Query().Get("wait"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			wait = time.Duration(ms) * time.Millisecond
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()
	board.Wait(ctx)

	snap := board.Snapshot()
	if !snap.Complete {
		h.Log.Debug("dashboard served before all resources settled",
			zap.String("subject", sess.Subject))
	}
	return snap
}

// ServeTenant is the tenant dashboard view model.
func (h *Handler) ServeTenant(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)
	snap := h.load(r, sess)

	data := tenantData{
		BaseVM: viewdata.NewBaseVM(r, "Tenant Dashboard"),
		Welcome: alert{
			Message:     "Welcome to the Tenant Dashboard",
			Description: "Please review and sign your lease agreement. Remember to make timely rent payments.",
			Type:        "warning",
		},
		Cards: tenantCards(snap),
		Board: snap,
	}

	h.Log.Debug("tenant dashboard served", zap.String("user", sess.Name))
	viewdata.JSON(w, http.StatusOK, data)
}

// ServeTenantAPI returns only the dashboard snapshot.
func (h *Handler) ServeTenantAPI(w http.ResponseWriter, r *http.Request) {
	viewdata.JSON(w, http.StatusOK, h.load(r, auth.CurrentSession(r)))
}

// ServeAdmin is the admin landing view model.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	data := adminData{
		BaseVM: viewdata.NewBaseVM(r, "Admin Dashboard"),
		Links: []link{
			{Label: "Leases", Href: "/admin/api/leases"},
		},
	}
	viewdata.JSON(w, http.StatusOK, data)
}

// tenantCards mirrors the quick-action cards. Counts are omitted while
// the initial load is still in progress.
func tenantCards(s Snapshot) []card {
	count := func(n int) *int {
		if s.InitialLoading {
			return nil
		}
		return &n
	}
	return []card{
		{
			Title:       "Complaints",
			Value:       count(s.Counts.Complaints),
			Description: "Something not working right or disturbing you? Let us know.",
			Action:      "POST /tenant/api/complaints",
			Enabled:     s.Actions.FileComplaint.Enabled,
		},
		{
			Title:       "Package info",
			Value:       count(s.Counts.Lockers),
			Description: "Open your locker to pick up waiting packages.",
			Action:      "POST /tenant/api/lockers/unlock",
			Enabled:     s.Actions.OpenLocker.Enabled,
		},
		{
			Title:       "Guest Parking",
			Value:       count(s.Counts.Parking),
			Description: "Add a guest parking permit.",
			Action:      "POST /tenant/api/parking",
			Enabled:     s.Actions.AddGuestParking.Enabled,
		},
		{
			Title:       "Work Orders",
			Value:       count(s.Counts.WorkOrders),
			Description: "View your work orders.",
			Action:      "GET /tenant/api/work-orders",
			Enabled:     true,
		},
		{
			Title:       "Complaints history",
			Value:       count(s.Counts.Complaints),
			Description: "View your complaints.",
			Action:      "GET /tenant/api/complaints",
			Enabled:     true,
		},
	}
}
