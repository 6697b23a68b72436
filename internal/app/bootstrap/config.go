// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// devSessionKey is only acceptable outside prod.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for the portal.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: EZRA_API_BASE_URL, EZRA_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: ezraapi.DefaultBaseURL, Desc: "EZRA API base URL"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: auth.DefaultSessionName, Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session cookie lifetime (e.g., 12h, 30m)"},

	// Identity provider
	{Name: "idp_client_id", Default: "", Desc: "Identity provider OAuth2 client ID"},
	{Name: "idp_client_secret", Default: "", Desc: "Identity provider OAuth2 client secret"},
	{Name: "idp_auth_url", Default: "", Desc: "Identity provider authorization endpoint"},
	{Name: "idp_token_url", Default: "", Desc: "Identity provider token endpoint"},
	{Name: "idp_jwt_secret", Default: "", Desc: "HS256 secret for identity tokens"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL of the portal"},

	// Query cache
	{Name: "fetch_retries", Default: querycache.DefaultRetries, Desc: "Extra attempts for failed EZRA reads (-1 disables)"},
	{Name: "resource_stale_time", Default: "5m", Desc: "How long tenant resource lists are served from cache"},
	{Name: "lease_stale_time", Default: "10m", Desc: "How long the lease status is served from cache"},
	{Name: "dashboard_wait", Default: "3s", Desc: "How long the dashboard waits before returning a partial snapshot"},

	{Name: "chat_rate_per_minute", Default: 20, Desc: "Chat requests allowed per client per minute"},
	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to call the API"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, EZRA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EZRA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: ezraapi.NormalizeBaseURL(appValues.String("api_base_url")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		IdPClientID:     appValues.String("idp_client_id"),
		IdPClientSecret: appValues.String("idp_client_secret"),
		IdPAuthURL:      appValues.String("idp_auth_url"),
		IdPTokenURL:     appValues.String("idp_token_url"),
		IdPJWTSecret:    appValues.String("idp_jwt_secret"),

		BaseURL: strings.TrimRight(appValues.String("base_url"), "/"),

		FetchRetries:      appValues.Int("fetch_retries"),
		ResourceStaleTime: appValues.Duration("resource_stale_time", querycache.ResourceStaleTime),
		LeaseStaleTime:    appValues.Duration("lease_stale_time", querycache.LeaseStatusStaleTime),
		DashboardWait:     appValues.Duration("dashboard_wait", 3*time.Second),

		ChatRatePerMinute: appValues.Int("chat_rate_per_minute"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Both URLs must be absolute http(s) URLs. In prod the development session
// key is refused and the identity provider must be fully configured.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateHTTPURL("api_base_url", appCfg.APIBaseURL); err != nil {
		logger.Error("invalid EZRA API URL", zap.Error(err))
		return err
	}
	if err := validateHTTPURL("base_url", appCfg.BaseURL); err != nil {
		logger.Error("invalid portal base URL", zap.Error(err))
		return err
	}
	if appCfg.ChatRatePerMinute < 1 {
		return fmt.Errorf("chat_rate_per_minute must be at least 1, got %d", appCfg.ChatRatePerMinute)
	}

	if coreCfg == nil || coreCfg.Env != "prod" {
		return nil
	}

	if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be a private value of at least 32 characters in prod")
	}
	var missing []string
	for name, v := range map[string]string{
		"idp_client_id":     appCfg.IdPClientID,
		"idp_client_secret": appCfg.IdPClientSecret,
		"idp_auth_url":      appCfg.IdPAuthURL,
		"idp_token_url":     appCfg.IdPTokenURL,
		"idp_jwt_secret":    appCfg.IdPJWTSecret,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("identity provider not configured; missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
