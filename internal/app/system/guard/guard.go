// Package guard decides, for every request in the protected route tree,
// whether the current session may see the requested path.
package guard

import (
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// State is the guard's verdict for one request.
type State string

const (
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateInvalidRole     State = "invalid-role"
	StateAdminZone       State = "admin-zone"
	StateTenantZone      State = "tenant-zone"
	StateMisrouted       State = "misrouted"
)

// Fixed destinations.
const (
	SignInPath  = "/auth/sign-in"
	ErrorPath   = "/error500"
	LandingPath = "/dashboard"
	retryAfterS = "1"
)

// Decision is the outcome of Decide. Redirect is empty when the request
// may proceed or, for StateLoading, when content is simply withheld.
type Decision struct {
	State    State
	Redirect string
}

// Allowed reports whether protected content may be served.
func (d Decision) Allowed() bool {
	return d.State == StateAdminZone || d.State == StateTenantZone
}

// Decide maps a session and request path to a guard state. A nil session
// is treated as still loading.
func Decide(sess *auth.Session, path string) Decision {
	switch {
	case sess == nil || !sess.Loaded:
		return Decision{State: StateLoading}
	case !sess.SignedIn:
		return Decision{State: StateUnauthenticated, Redirect: SignInPath}
	}

	switch sess.Role {
	case authz.RoleAdmin:
		if authz.InZone(path, authz.AdminZone) {
			return Decision{State: StateAdminZone}
		}
		return Decision{State: StateMisrouted, Redirect: authz.AdminZone}
	case authz.RoleTenant:
		if authz.InZone(path, authz.TenantZone) {
			return Decision{State: StateTenantZone}
		}
		return Decision{State: StateMisrouted, Redirect: authz.TenantZone}
	default:
		return Decision{State: StateInvalidRole, Redirect: SignInPath}
	}
}

// Landing is where a freshly signed-in user is sent.
func Landing(sess *auth.Session) string {
	if sess == nil || !sess.SignedIn {
		return SignInPath
	}
	switch sess.Role {
	case authz.RoleAdmin:
		return authz.AdminZone
	case authz.RoleTenant:
		return authz.TenantZone
	default:
		return ErrorPath
	}
}

// Middleware enforces Decide on every request it wraps.
//   - loading: 503 with Retry-After
//   - unauthenticated / invalid-role: browsers get 303 to sign-in, API
//     callers get 401 with the redirect in the body
//   - misrouted: 303 to the role's zone root
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(auth.CurrentSession(r), r.URL.Path)
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			switch d.State {
			case StateLoading:
				w.Header().Set("Retry-After", retryAfterS)
				viewdata.Error(w, http.StatusServiceUnavailable, "session loading")

			case StateUnauthenticated, StateInvalidRole:
				if d.State == StateInvalidRole {
					logger.Warn("signed-in user has no valid role",
						zap.String("path", r.URL.Path))
				}
				if viewdata.WantsHTML(r) {
					http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
					return
				}
				viewdata.JSON(w, http.StatusUnauthorized, viewdata.ErrorVM{
					Error:    string(d.State),
					Redirect: d.Redirect,
				})

			default:
				http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
			}
		})
	}
}
