package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ezraportal/internal/app/features/session"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func router() http.Handler {
	r := chi.NewRouter()
	session.Routes(session.NewHandler(zap.NewNop()), r)
	return r
}

func TestServeSession(t *testing.T) {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/session", testutil.TenantUser())
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["loaded"] != true || body["signed_in"] != true || body["role"] != "tenant" || body["user_id"] != "42" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestServeSession_SignedOut(t *testing.T) {
	req := auth.WithTestSession(httptest.NewRequest(http.MethodGet, "/api/session", nil), auth.SignedOut())
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["loaded"] != true || body["signed_in"] != false {
		t.Errorf("unexpected body %v", body)
	}
}

func TestServeLanding(t *testing.T) {
	noRole := testutil.TenantUser()
	noRole.Role = authz.RoleNone

	tests := []struct {
		name string
		sess *auth.Session
		want string
	}{
		{"admin", testutil.AdminUser().Session(), "/admin"},
		{"tenant", testutil.TenantUser().Session(), "/tenant"},
		{"no role", noRole.Session(), "/error500"},
		{"signed out", auth.SignedOut(), "/auth/sign-in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := auth.WithTestSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), tt.sess)
			rec := testutil.NewRecorder()
			router().ServeHTTP(rec, req)
			rec.AssertRedirect(t, tt.want)
		})
	}
}
