// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"
	"net/url"
	"time"

	chatfeature "github.com/dalemusser/ezraportal/internal/app/features/chat"
	dashboardfeature "github.com/dalemusser/ezraportal/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/ezraportal/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ezraportal/internal/app/features/health"
	homefeature "github.com/dalemusser/ezraportal/internal/app/features/home"
	leasesfeature "github.com/dalemusser/ezraportal/internal/app/features/leases"
	sessionfeature "github.com/dalemusser/ezraportal/internal/app/features/session"
	signinfeature "github.com/dalemusser/ezraportal/internal/app/features/signin"
	signoutfeature "github.com/dalemusser/ezraportal/internal/app/features/signout"
	tenantfeature "github.com/dalemusser/ezraportal/internal/app/features/tenant"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/guard"
	"github.com/dalemusser/ezraportal/internal/app/system/metrics"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/app/system/ratelimit"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, client construction, the startup
// reachability check and the Startup hook have completed.
//
// Layout:
//   - public: /, /health, /metrics, /static, /auth/*, error pages,
//     /api/chat (rate limited), /api/session, /dashboard
//   - /tenant: guarded to tenants, then the lease gate
//   - /admin: guarded to admins
//
// Everything except chat, health and metrics sits behind CSRF protection.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(auth.SessionConfig{
		Key:    appCfg.SessionKey,
		Name:   appCfg.SessionName,
		Domain: appCfg.SessionDomain,
		MaxAge: int(appCfg.SessionMaxAge / time.Second),
		Secure: secure,
	}, deps.OAuth, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	queryCfg := dashboardfeature.QueryConfig{
		Retries:           appCfg.FetchRetries,
		ResourceStaleTime: appCfg.ResourceStaleTime,
		LeaseStaleTime:    appCfg.LeaseStaleTime,
	}
	agg := dashboardfeature.NewAggregator(deps.API, deps.Cache, queryCfg, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(errorsfeature.Boundary(logger))
	r.Use(metrics.Instrument)
	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
			ExposedHeaders:   []string{"X-CSRF-Token", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Global auth middleware: every request carries a loaded session.
	r.Use(sessionMgr.LoadSession)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.API, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Authentication
	signinHandler := signinfeature.NewHandler(sessionMgr, deps.OAuth, deps.Verifier, logger)
	r.Mount("/auth", signinfeature.Routes(signinHandler))

	signoutHandler := signoutfeature.NewHandler(sessionMgr, deps.Cache, logger)
	r.Mount("/auth/sign-out", signoutfeature.Routes(signoutHandler))

	// Assistant; the upstream endpoint is public so no session is required.
	chatHandler := chatfeature.NewHandler(deps.API, logger)
	limiter := ratelimit.New(appCfg.ChatRatePerMinute, appCfg.ChatRatePerMinute/4+1)
	r.Mount("/api/chat", chatfeature.Routes(chatHandler, limiter))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	errorsfeature.Routes(errorsHandler, r)

	r.Group(func(pr chi.Router) {
		pr.Use(csrfProtect(appCfg, secure, logger))

		// Public pages
		homefeature.Routes(homefeature.NewHandler(logger), pr)
		sessionfeature.Routes(sessionfeature.NewHandler(logger), pr)

		dashboardHandler := dashboardfeature.NewHandler(agg, logger)

		pr.Route("/tenant", func(tr chi.Router) {
			tr.Use(guard.Middleware(logger))
			tr.Use(dashboardfeature.GateMiddleware(agg, logger))
			dashboardfeature.TenantRoutes(dashboardHandler, tr)
			tenantfeature.Routes(tenantfeature.NewHandler(deps.API, agg, deps.Cache, logger), tr)
		})

		pr.Route("/admin", func(ar chi.Router) {
			ar.Use(guard.Middleware(logger))
			dashboardfeature.AdminRoutes(dashboardHandler, ar)
			leasesHandler := leasesfeature.NewHandler(deps.API, deps.Cache, querycache.Options{
				StaleTime:   appCfg.ResourceStaleTime,
				Retries:     appCfg.FetchRetries,
				ShouldRetry: ezraapi.IsRetryable,
			}, logger)
			leasesfeature.Routes(leasesHandler, ar)
		})
	})

	return r, nil
}

// csrfProtect applies gorilla/csrf with a key derived from the session key.
// Outside prod requests are marked plaintext so the referer check that
// only makes sense over TLS is skipped.
func csrfProtect(appCfg AppConfig, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + appCfg.SessionKey))

	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.CookieName("ezra_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			viewdata.Error(w, http.StatusForbidden, "Invalid or missing CSRF token.")
		})),
	}
	if hosts := originHosts(appCfg.CORSAllowedOrigins); len(hosts) > 0 {
		opts = append(opts, csrf.TrustedOrigins(hosts))
	}
	protect := csrf.Protect(key[:], opts...)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			h.ServeHTTP(w, r)
		})
	}
}

func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
