// Package session exposes the signed-in state to the browser and performs
// the post-sign-in landing redirect.
package session

import (
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/guard"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type sessionData struct {
	Loaded   bool   `json:"loaded"`
	SignedIn bool   `json:"signed_in"`
	Role     string `json:"role"`
	UserID   string `json:"user_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// ServeSession handles GET /api/session. The CSRF token for mutations is
// returned in the X-CSRF-Token header.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)
	if sess == nil {
		sess = &auth.Session{}
	}
	if tok := csrf.Token(r); tok != "" {
		w.Header().Set("X-CSRF-Token", tok)
	}
	viewdata.JSON(w, http.StatusOK, sessionData{
		Loaded:   sess.Loaded,
		SignedIn: sess.SignedIn,
		Role:     sess.Role.String(),
		UserID:   sess.UserID,
		Name:     sess.Name,
	})
}

// ServeLanding handles GET /dashboard: admins go to /admin, tenants to
// /tenant, anyone else to sign-in or the error page.
func (h *Handler) ServeLanding(w http.ResponseWriter, r *http.Request) {
	dest := guard.Landing(auth.CurrentSession(r))
	if dest == guard.ErrorPath {
		h.Log.Warn("landing for user without a portal role")
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
