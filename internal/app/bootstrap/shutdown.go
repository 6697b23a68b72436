// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown releases the upstream connection pool.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	if deps.API != nil && deps.API.HTTP != nil {
		logger.Info("closing EZRA API idle connections")
		deps.API.HTTP.CloseIdleConnections()
	}
	return nil
}
