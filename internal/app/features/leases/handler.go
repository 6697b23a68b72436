// internal/app/features/leases/handler.go
package leases

import (
	"context"
	"net/http"
	"strconv"
	"time"

	errorsfeature "github.com/dalemusser/ezraportal/internal/app/features/errors"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/dalemusser/ezraportal/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// API is the slice of the EZRA API the lease table uses.
type API interface {
	AdminLeases(ctx context.Context, ts oauth2.TokenSource) ([]models.Lease, error)
	TerminateLease(ctx context.Context, ts oauth2.TokenSource, id, updatedBy int64) error
}

type Handler struct {
	API   API
	Cache *querycache.Cache
	Query querycache.Options
	Log   *zap.Logger
	Now   func() time.Time // clock for expires_soon; tests pin it
}

func NewHandler(api API, cache *querycache.Cache, query querycache.Options, logger *zap.Logger) *Handler {
	if query.ShouldRetry == nil {
		query.ShouldRetry = ezraapi.IsRetryable
	}
	return &Handler{
		API:   api,
		Cache: cache,
		Query: query,
		Log:   logger,
		Now:   time.Now,
	}
}

type listData struct {
	viewdata.BaseVM
	Leases        []Row    `json:"leases"`
	StatusFilters []Filter `json:"statusFilters"`
}

func (h *Handler) leases(ctx context.Context, sess *auth.Session) ([]models.Lease, error) {
	ts := sess.TokenSource()
	return querycache.Query(ctx, h.Cache, querycache.AdminLeasesKey, h.Query,
		func(ctx context.Context) ([]models.Lease, error) { return h.API.AdminLeases(ctx, ts) })
}

// List serves GET /admin/api/leases.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ls, err := h.leases(r.Context(), auth.CurrentSession(r))
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "load leases", err)
		return
	}
	rows := MapLeases(ls, h.Now())
	viewdata.JSON(w, http.StatusOK, listData{
		BaseVM:        viewdata.NewBaseVM(r, "Leases"),
		Leases:        rows,
		StatusFilters: StatusFilters(rows),
	})
}

// Terminate serves POST /admin/api/leases/{id}/terminate.
func (h *Handler) Terminate(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		viewdata.Error(w, http.StatusBadRequest, "Invalid lease id.")
		return
	}

	ls, err := h.leases(r.Context(), sess)
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "terminate the lease", err)
		return
	}
	var row *Row
	for _, l := range ls {
		if l.ID == id {
			m := MapLease(l, h.Now())
			row = &m
			break
		}
	}
	if row == nil {
		viewdata.Error(w, http.StatusNotFound, "Lease not found.")
		return
	}
	if !authz.CanTerminate(row.Status) {
		viewdata.Error(w, http.StatusConflict, "This lease cannot be terminated.")
		return
	}

	updatedBy, err := strconv.ParseInt(sess.UserID, 10, 64)
	if err != nil {
		h.Log.Warn("admin has no numeric EZRA id; sending 0 as updated_by",
			zap.String("subject", sess.Subject))
		updatedBy = 0
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "terminate lease")
	defer cancel()
	if err := h.API.TerminateLease(ctx, sess.TokenSource(), id, updatedBy); err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "terminate the lease", err)
		return
	}

	h.Cache.Invalidate(querycache.AdminLeasesKey)
	h.Log.Info("lease terminated", zap.Int64("lease_id", id), zap.String("by", sess.Subject))
	viewdata.JSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Lease successfully terminated"})
}
