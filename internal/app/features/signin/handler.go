// internal/app/features/signin/handler.go
package signin

import (
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/guard"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// FailurePath is where a failed sign-in lands.
const FailurePath = "/unauthorized"

// Handler runs the identity provider's authorization code flow.
type Handler struct {
	Sessions *auth.SessionManager
	OAuth    *oauth2.Config
	Verifier *auth.Verifier
	Log      *zap.Logger
}

func NewHandler(sessions *auth.SessionManager, oauthCfg *oauth2.Config, verifier *auth.Verifier, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions: sessions,
		OAuth:    oauthCfg,
		Verifier: verifier,
		Log:      logger,
	}
}

// IsConfigured reports whether an identity provider is set up.
func (h *Handler) IsConfigured() bool {
	return h.OAuth != nil && h.OAuth.ClientID != "" && h.OAuth.Endpoint.AuthURL != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/sign-in                                                            |
| Drops any current session and sends the browser to the identity provider.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignIn(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("identity provider not configured")
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}

	state, err := h.Sessions.BeginSignIn(w, r)
	if err != nil {
		h.Log.Error("failed to start sign-in", zap.Error(err))
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}

	url := h.OAuth.AuthCodeURL(state, oauth2.AccessTypeOffline)
	h.Log.Debug("initiating sign-in", zap.String("redirect_url", url))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/callback                                                           |
| Checks state, exchanges the code, reads the identity token and stores the   |
| session, then hands off to the landing redirect.                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.Log.Warn("identity provider returned an error",
			zap.String("error", errParam),
			zap.String("description", q.Get("error_description")))
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}

	if err := h.Sessions.VerifyState(w, r, q.Get("state")); err != nil {
		h.Log.Warn("invalid or missing OAuth state")
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "oauth exchange")
	defer cancel()

	tok, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}

	id, err := h.Verifier.Parse(auth.IdentityToken(tok))
	if err != nil {
		h.Log.Warn("identity token rejected", zap.Error(err))
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}
	if !id.Role.Valid() {
		// Kept signed in; the landing redirect sends them to the error page.
		h.Log.Warn("signed-in user has no portal role", zap.String("subject", id.Subject))
	}

	if err := h.Sessions.SignIn(w, r, id, tok); err != nil {
		h.Log.Error("failed to save session", zap.Error(err))
		http.Redirect(w, r, FailurePath, http.StatusSeeOther)
		return
	}

	h.Log.Info("user signed in",
		zap.String("subject", id.Subject),
		zap.String("role", id.Role.String()))
	http.Redirect(w, r, guard.LandingPath, http.StatusSeeOther)
}
