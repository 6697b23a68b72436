package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/app/system/guard"
	"go.uber.org/zap"
)

func signedIn(role authz.Role) *auth.Session {
	return &auth.Session{Loaded: true, SignedIn: true, Role: role, Subject: "user_1"}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		sess     *auth.Session
		path     string
		state    guard.State
		redirect string
	}{
		{"nil session", nil, "/tenant", guard.StateLoading, ""},
		{"not loaded", &auth.Session{}, "/admin", guard.StateLoading, ""},
		{"signed out", auth.SignedOut(), "/tenant", guard.StateUnauthenticated, "/auth/sign-in"},
		{"role none", signedIn(authz.RoleNone), "/tenant", guard.StateInvalidRole, "/auth/sign-in"},
		{"admin in zone", signedIn(authz.RoleAdmin), "/admin", guard.StateAdminZone, ""},
		{"admin nested", signedIn(authz.RoleAdmin), "/admin/api/leases", guard.StateAdminZone, ""},
		{"admin in tenant zone", signedIn(authz.RoleAdmin), "/tenant", guard.StateMisrouted, "/admin"},
		{"tenant in zone", signedIn(authz.RoleTenant), "/tenant/api/dashboard", guard.StateTenantZone, ""},
		{"tenant in admin zone", signedIn(authz.RoleTenant), "/admin/api/leases", guard.StateMisrouted, "/tenant"},
		{"tenant lookalike prefix", signedIn(authz.RoleTenant), "/tenants", guard.StateMisrouted, "/tenant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := guard.Decide(tt.sess, tt.path)
			if d.State != tt.state {
				t.Errorf("state = %q, want %q", d.State, tt.state)
			}
			if d.Redirect != tt.redirect {
				t.Errorf("redirect = %q, want %q", d.Redirect, tt.redirect)
			}
		})
	}
}

func TestLanding(t *testing.T) {
	tests := []struct {
		sess *auth.Session
		want string
	}{
		{signedIn(authz.RoleAdmin), "/admin"},
		{signedIn(authz.RoleTenant), "/tenant"},
		{signedIn(authz.RoleNone), "/error500"},
		{auth.SignedOut(), "/auth/sign-in"},
		{nil, "/auth/sign-in"},
	}
	for _, tt := range tests {
		if got := guard.Landing(tt.sess); got != tt.want {
			t.Errorf("Landing(%+v) = %q, want %q", tt.sess, got, tt.want)
		}
	}
}

func serve(sess *auth.Session, path, accept string) *httptest.ResponseRecorder {
	h := guard.Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if sess != nil {
		req = auth.WithTestSession(req, sess)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_AllowsZone(t *testing.T) {
	rec := serve(signedIn(authz.RoleTenant), "/tenant", "text/html")
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestMiddleware_LoadingWithholdsContent(t *testing.T) {
	rec := serve(nil, "/tenant", "text/html")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestMiddleware_BrowserRedirectsToSignIn(t *testing.T) {
	rec := serve(auth.SignedOut(), "/admin", "text/html,application/xhtml+xml")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/sign-in" {
		t.Errorf("expected redirect to /auth/sign-in, got %q", loc)
	}
}

func TestMiddleware_APIGets401(t *testing.T) {
	for _, sess := range []*auth.Session{auth.SignedOut(), signedIn(authz.RoleNone)} {
		rec := serve(sess, "/tenant/api/dashboard", "application/json")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	}
}

func TestMiddleware_MisroutedRedirectsToZone(t *testing.T) {
	rec := serve(signedIn(authz.RoleAdmin), "/tenant/api/complaints", "application/json")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("expected redirect to /admin, got %q", loc)
	}
}
