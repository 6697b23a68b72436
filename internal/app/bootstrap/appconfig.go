// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (EZRA_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// keeps the framework-level settings: ports, TLS, logging and body limits.
type AppConfig struct {
	// EZRA backend
	APIBaseURL string // e.g. http://localhost:8080

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: ezra-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Identity provider (OAuth2 authorization code flow)
	IdPClientID     string
	IdPClientSecret string
	IdPAuthURL      string
	IdPTokenURL     string
	IdPJWTSecret    string // HS256 key for identity tokens

	// Public URL of the portal; the OAuth callback is BaseURL + /auth/callback.
	BaseURL string

	// Query cache tuning
	FetchRetries      int
	ResourceStaleTime time.Duration
	LeaseStaleTime    time.Duration
	DashboardWait     time.Duration

	// Chat proxy
	ChatRatePerMinute int

	// Browser origins allowed to call the API cross-site.
	CORSAllowedOrigins []string
}
