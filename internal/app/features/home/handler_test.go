package home_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/ezraportal/internal/app/features/home"
	"github.com/dalemusser/ezraportal/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	home.Routes(home.NewHandler(zap.NewNop()), r)
	return r
}

func TestServeRoot_Unauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var body struct {
		SignedIn bool `json:"signed_in"`
		Hero     struct {
			Title string `json:"title"`
		} `json:"hero"`
		Features []json.RawMessage `json:"features"`
		FAQs     []json.RawMessage `json:"faqs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SignedIn {
		t.Error("expected signed_in false")
	}
	if body.Hero.Title != "Welcome to EZRA Apartments" {
		t.Errorf("unexpected hero title %q", body.Hero.Title)
	}
	if len(body.Features) != 4 || len(body.FAQs) != 3 {
		t.Errorf("expected 4 features and 3 faqs, got %d and %d", len(body.Features), len(body.FAQs))
	}
}

func TestServeRoot_Authenticated(t *testing.T) {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.TenantUser())
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"user_name":"Test Tenant"`) {
		t.Errorf("expected user name in body, got %s", rec.Body.String())
	}
}

func TestServeTour(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"name":"Ada","email":"ada@example.com","phone":"555-123-4567"}`, http.StatusAccepted},
		{"bad email", `{"name":"Ada","email":"ada","phone":"555-123-4567"}`, http.StatusUnprocessableEntity},
		{"missing name", `{"name":"","email":"ada@example.com","phone":"555-123-4567"}`, http.StatusUnprocessableEntity},
		{"bad json", `{"name":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tour", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
