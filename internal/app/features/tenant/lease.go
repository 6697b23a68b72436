// internal/app/features/tenant/lease.go
package tenant

import (
	"net/http"
	"net/url"

	errorsfeature "github.com/dalemusser/ezraportal/internal/app/features/errors"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// SignLease serves GET /tenant/lease/sign, the lease gate's only action.
// It sends the tenant to the signing URL, and drops the cached lease status
// so the gate is re-evaluated when they come back.
func (h *Handler) SignLease(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)

	ls, err := h.Agg.LeaseStatus(r.Context(), sess)
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "load your lease", err)
		return
	}

	u, err := url.Parse(ls.SigningURL)
	if ls.SigningURL == "" || err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		h.Log.Warn("no usable signing URL", zap.String("subject", sess.Subject), zap.String("status", ls.Status))
		viewdata.Error(w, http.StatusBadGateway, "No signing URL available. Please contact the leasing office.")
		return
	}

	h.Cache.Invalidate(querycache.LeaseStatusKey(sess.Subject))
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
