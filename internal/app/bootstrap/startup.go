// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/ezraportal/internal/app/system/metrics"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the clients are
// built but before the HTTP handler is. It registers metrics and applies
// the configured dashboard wait.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	metrics.Init()
	timeouts.Configure(timeouts.Config{Dashboard: appCfg.DashboardWait})

	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("dashboard", cur.Dashboard))
	return nil
}
