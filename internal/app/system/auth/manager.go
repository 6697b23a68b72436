// internal/app/system/auth/manager.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultSessionName is the cookie name when none is configured.
const DefaultSessionName = "ezra-session"

// ErrInvalidState means the OAuth callback's state did not match the one
// issued at sign-in.
var ErrInvalidState = errors.New("auth: invalid oauth state")

const (
	signedInKey     = "signed_in"
	roleKey         = "role"
	userIDKey       = "user_id"
	subjectKey      = "subject"
	nameKey         = "name"
	emailKey        = "email"
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
	tokenTypeKey    = "token_type"
	expiryKey       = "expiry"
	stateKey        = "oauth_state"
)

// SessionConfig configures the cookie store.
type SessionConfig struct {
	Key    string // at least 32 chars recommended
	Name   string
	Domain string
	MaxAge int // seconds; 0 keeps the gorilla default
	Secure bool
}

// SessionManager reads and writes the portal session cookie.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	oauth *oauth2.Config
	log   *zap.Logger
}

// NewSessionManager builds the cookie store. oauthCfg, when non-nil, lets
// stored tokens refresh through the identity provider.
func NewSessionManager(cfg SessionConfig, oauthCfg *oauth2.Config, logger *zap.Logger) (*SessionManager, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(cfg.Key)))
	}
	if cfg.Name == "" {
		cfg.Name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(cfg.Key))
	opts := &sessions.Options{
		Domain:   cfg.Domain,
		Path:     "/",
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.MaxAge > 0 {
		opts.MaxAge = cfg.MaxAge
		store.MaxAge(cfg.MaxAge)
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", cfg.Name),
		zap.Bool("secure", cfg.Secure),
		zap.String("domain", cfg.Domain))

	return &SessionManager{store: store, name: cfg.Name, oauth: oauthCfg, log: logger}, nil
}

// Name is the session cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// GetSession decodes the request's cookie. A cookie that cannot be decoded
// (tampered, or signed with a rotated key) reads as signed out.
func (sm *SessionManager) GetSession(r *http.Request) *Session {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Warn("session cookie could not be decoded; treating as signed out", zap.Error(err))
		} else {
			sm.log.Warn("session load failed", zap.Error(err))
		}
		return SignedOut()
	}

	signedIn, _ := sess.Values[signedInKey].(bool)
	if !signedIn {
		return SignedOut()
	}

	s := &Session{
		Loaded:   true,
		SignedIn: true,
		Role:     authz.DeriveRole(getString(sess, roleKey)),
		UserID:   getString(sess, userIDKey),
		Subject:  getString(sess, subjectKey),
		Name:     getString(sess, nameKey),
		Email:    getString(sess, emailKey),
	}
	s.Tokens = sm.tokenSource(r.Context(), sess)
	return s
}

// LoadSession puts the decoded session into the request context.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sm.GetSession(r))))
	})
}

// BeginSignIn clears any existing identity and stores a fresh OAuth state,
// which it returns.
func (sm *SessionManager) BeginSignIn(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[any]any{}
	state := uuid.NewString()
	sess.Values[stateKey] = state
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return state, nil
}

// VerifyState checks the callback's state against the stored one and
// consumes it.
func (sm *SessionManager) VerifyState(w http.ResponseWriter, r *http.Request, state string) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return ErrInvalidState
	}
	want := getString(sess, stateKey)
	delete(sess.Values, stateKey)
	_ = sess.Save(r, w)
	if want == "" || state == "" || want != state {
		return ErrInvalidState
	}
	return nil
}

// SignIn stores id and tok in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, id Identity, tok *oauth2.Token) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[any]any{
		signedInKey: true,
		roleKey:     id.Role.String(),
		userIDKey:   id.UserID,
		subjectKey:  id.Subject,
		nameKey:     id.Name,
		emailKey:    id.Email,
	}
	if tok != nil {
		sess.Values[accessTokenKey] = tok.AccessToken
		sess.Values[refreshTokenKey] = tok.RefreshToken
		sess.Values[tokenTypeKey] = tok.TokenType
		if !tok.Expiry.IsZero() {
			sess.Values[expiryKey] = tok.Expiry.Unix()
		}
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut deletes the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func (sm *SessionManager) tokenSource(ctx context.Context, sess *sessions.Session) oauth2.TokenSource {
	access := getString(sess, accessTokenKey)
	if access == "" {
		return nil
	}
	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: getString(sess, refreshTokenKey),
		TokenType:    getString(sess, tokenTypeKey),
	}
	if exp, ok := sess.Values[expiryKey].(int64); ok {
		tok.Expiry = time.Unix(exp, 0)
	}
	if sm.oauth == nil || tok.RefreshToken == "" {
		return oauth2.StaticTokenSource(tok)
	}
	// Refreshes run outside the request's cancellation.
	return sm.oauth.TokenSource(context.WithoutCancel(ctx), tok)
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
