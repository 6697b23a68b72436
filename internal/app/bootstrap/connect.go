// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ConnectDB builds the EZRA API client, the query cache and the identity
// provider configuration.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	deps := Deps{
		API:      ezraapi.NewClient(appCfg.APIBaseURL, httpClient, logger.Named("ezraapi")),
		Cache:    querycache.New(logger.Named("querycache")),
		OAuth:    oauthConfig(appCfg),
		Verifier: auth.NewVerifier(appCfg.IdPJWTSecret),
	}

	logger.Info("EZRA API client ready", zap.String("base_url", deps.API.BaseURL))
	return deps, nil
}

// EnsureSchema has no schema to create; it checks that EZRA answers so a
// misconfigured base URL shows up at boot. An unreachable API is logged,
// not fatal, because the portal degrades per resource.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := deps.API.Ping(pingCtx); err != nil {
		logger.Warn("EZRA API not reachable at startup", zap.Error(err))
	}
	return nil
}

func oauthConfig(appCfg AppConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     appCfg.IdPClientID,
		ClientSecret: appCfg.IdPClientSecret,
		RedirectURL:  appCfg.BaseURL + "/auth/callback",
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  appCfg.IdPAuthURL,
			TokenURL: appCfg.IdPTokenURL,
		},
	}
}
