// Package auth owns the portal's view of who is signed in.
//
// A Session is decoded from the cookie by SessionManager.LoadSession and
// carried in the request context. Handlers, the route guard and the
// dashboard aggregator read it with CurrentSession; nothing in the portal
// keeps identity in package-level state.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned when the session cannot produce a bearer token.
var ErrNoToken = errors.New("auth: no bearer token")

// Session is the identity state of one request.
type Session struct {
	// Loaded is false until the cookie has been examined. The route guard
	// withholds protected content while it is false.
	Loaded   bool
	SignedIn bool

	Role    authz.Role
	UserID  string // EZRA database id (db_id claim); empty when the IdP has none
	Subject string // identity-provider user id
	Name    string
	Email   string

	Tokens oauth2.TokenSource
}

// SignedOut is a loaded session with nobody signed in.
func SignedOut() *Session {
	return &Session{Loaded: true}
}

// BearerToken returns a currently valid access token.
func (s *Session) BearerToken() (string, error) {
	if s == nil || !s.SignedIn || s.Tokens == nil {
		return "", ErrNoToken
	}
	tok, err := s.Tokens.Token()
	if err != nil || tok == nil || !tok.Valid() {
		return "", ErrNoToken
	}
	return tok.AccessToken, nil
}

// TokenSource is the session's token source, or nil when signed out.
func (s *Session) TokenSource() oauth2.TokenSource {
	if s == nil || !s.SignedIn {
		return nil
	}
	return s.Tokens
}

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session in ctx, or nil when none was loaded.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}

// CurrentSession returns the request's session, or nil when LoadSession
// has not run.
func CurrentSession(r *http.Request) *Session {
	return FromContext(r.Context())
}

// WithTestSession attaches s to r. For tests.
func WithTestSession(r *http.Request, s *Session) *http.Request {
	return r.WithContext(WithSession(r.Context(), s))
}
