// Package timeouts provides the timeout values used for upstream EZRA API
// calls made on behalf of a request.
//
// Values start at the defaults below and may be overridden once at startup
// with Configure. Zero values passed to Configure are ignored.
//
//   - Ping: reachability probes from the health endpoint
//   - Short: single-record reads and mutations (unlock, terminate)
//   - Medium: list reads and the detached dashboard fetches
//   - Dashboard: how long a dashboard request waits for its resources
//     before returning a partial snapshot
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing      = 2 * time.Second
	DefaultShort     = 5 * time.Second
	DefaultMedium    = 10 * time.Second
	DefaultDashboard = 3 * time.Second
)

var (
	mu        sync.RWMutex
	ping      = DefaultPing
	short     = DefaultShort
	medium    = DefaultMedium
	dashboard = DefaultDashboard
)

// Config holds timeout overrides. Zero fields keep the current value.
type Config struct {
	Ping      time.Duration
	Short     time.Duration
	Medium    time.Duration
	Dashboard time.Duration
}

func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

func Dashboard() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return dashboard
}

// Configure applies non-zero overrides from cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Dashboard > 0 {
		dashboard = cfg.Dashboard
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, dashboard = DefaultPing, DefaultShort, DefaultMedium, DefaultDashboard
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Dashboard: dashboard}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was what ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
