package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// IDPSecret signs identity tokens issued by FakeIdP.
const IDPSecret = "test-idp-secret"

// SignIDToken issues an HS256 identity token for u, valid for an hour.
func SignIDToken(t testing.TB, secret string, u TestUser) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   u.Subject,
		"name":  u.Name,
		"email": u.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"public_metadata": map[string]any{
			"role":  u.Role.String(),
			"db_id": u.UserID,
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign id token: %v", err)
	}
	return raw
}

// FakeIdP is an OAuth2 provider whose token endpoint always issues tokens
// for User. Codes other than Code are refused.
type FakeIdP struct {
	Server *httptest.Server
	User   TestUser
	Code   string
}

// NewFakeIdP starts a provider; it is closed when the test ends.
func NewFakeIdP(t testing.TB, u TestUser) *FakeIdP {
	t.Helper()
	idp := &FakeIdP{User: u, Code: "good-code"}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != idp.Code {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  idp.User.Token,
			"token_type":    "Bearer",
			"refresh_token": "refresh-" + idp.User.Subject,
			"expires_in":    3600,
			"id_token":      SignIDToken(t, IDPSecret, idp.User),
		})
	})
	idp.Server = httptest.NewServer(mux)
	t.Cleanup(idp.Server.Close)
	return idp
}

// Config returns an OAuth2 client configuration pointing at the provider.
func (p *FakeIdP) Config(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "portal",
		ClientSecret: "portal-secret",
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.Server.URL + "/oauth/authorize",
			TokenURL:  p.Server.URL + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
