// internal/app/features/signout/handler.go
package signout

import (
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"go.uber.org/zap"
)

type Handler struct {
	Log      *zap.Logger
	Sessions *auth.SessionManager
	Cache    *querycache.Cache
}

func NewHandler(sessions *auth.SessionManager, cache *querycache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Sessions: sessions,
		Cache:    cache,
	}
}

// ServeSignOut handles GET /auth/sign-out. The user's cached queries are
// dropped before the cookie so nothing of theirs outlives the session.
func (h *Handler) ServeSignOut(w http.ResponseWriter, r *http.Request) {
	if sess := h.Sessions.GetSession(r); sess.SignedIn && h.Cache != nil {
		h.Cache.ForgetUser(sess.Subject)
		if sess.Role == authz.RoleAdmin {
			h.Cache.Invalidate(querycache.AdminLeasesKey)
		}
		h.Log.Info("user signed out", zap.String("subject", sess.Subject))
	}

	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("sign-out: save session", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
