package signin_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalemusser/ezraportal/internal/app/features/signin"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*signin.Handler, *auth.SessionManager, *testutil.FakeIdP) {
	t.Helper()
	idp := testutil.NewFakeIdP(t, testutil.TenantUser())
	sm := testutil.NewSessionManager()
	h := signin.NewHandler(sm, idp.Config("http://portal.test/auth/callback"),
		auth.NewVerifier(testutil.IDPSecret), zap.NewNop())
	return h, sm, idp
}

func beginSignIn(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sign-in", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected status %d, got %d", http.StatusTemporaryRedirect, rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected a state parameter on the authorization URL")
	}
	return rec, state
}

func TestSignIn_FullFlow(t *testing.T) {
	h, sm, idp := newHandler(t)
	router := signin.Routes(h)

	first, state := beginSignIn(t, router)

	req := httptest.NewRequest(http.MethodGet, "/callback?state="+state+"&code="+idp.Code, nil)
	testutil.CarryCookies(first, req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %q", got)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	testutil.CarryCookies(rec, next)
	sess := sm.GetSession(next)
	if !sess.SignedIn || sess.Role != authz.RoleTenant || sess.UserID != "42" {
		t.Errorf("unexpected session %+v", sess)
	}
	if tok, err := sess.BearerToken(); err != nil || tok != "tenant-token" {
		t.Errorf("expected stored access token, got %q (%v)", tok, err)
	}
}

func TestCallback_Rejections(t *testing.T) {
	h, _, idp := newHandler(t)
	router := signin.Routes(h)

	tests := []struct {
		name  string
		query func(state string) string
	}{
		{"provider error", func(string) string { return "?error=access_denied" }},
		{"wrong state", func(string) string { return "?state=forged&code=" + idp.Code }},
		{"missing code", func(s string) string { return "?state=" + s }},
		{"bad code", func(s string) string { return "?state=" + s + "&code=nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, state := beginSignIn(t, router)
			req := httptest.NewRequest(http.MethodGet, "/callback"+tt.query(state), nil)
			testutil.CarryCookies(first, req)
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, req)
			rec.AssertRedirect(t, signin.FailurePath)
		})
	}
}

func TestSignIn_NotConfigured(t *testing.T) {
	h := signin.NewHandler(testutil.NewSessionManager(), nil, auth.NewVerifier("x"), zap.NewNop())
	rec := testutil.NewRecorder()
	signin.Routes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sign-in", nil))
	rec.AssertRedirect(t, signin.FailurePath)
}
