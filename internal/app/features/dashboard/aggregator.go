// internal/app/features/dashboard/aggregator.go
package dashboard

import (
	"context"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// TenantAPI is the slice of the EZRA API the dashboard reads.
type TenantAPI interface {
	Complaints(ctx context.Context, ts oauth2.TokenSource) ([]models.Complaint, error)
	WorkOrders(ctx context.Context, ts oauth2.TokenSource) ([]models.WorkOrder, error)
	Lockers(ctx context.Context, ts oauth2.TokenSource) ([]models.Locker, error)
	ParkingPermits(ctx context.Context, ts oauth2.TokenSource) ([]models.ParkingPermit, error)
	LeaseStatus(ctx context.Context, ts oauth2.TokenSource, userID string) (models.LeaseSigning, error)
}

// QueryConfig tunes the cached reads.
type QueryConfig struct {
	Retries           int
	ResourceStaleTime time.Duration
	LeaseStaleTime    time.Duration
}

// Aggregator loads the tenant dashboard's resources through the query
// cache. The per-resource readers are also used by the tenant feature.
type Aggregator struct {
	API   TenantAPI
	Cache *querycache.Cache
	Cfg   QueryConfig
	Log   *zap.Logger
}

// NewAggregator returns an aggregator with default query settings where
// cfg leaves them zero.
func NewAggregator(api TenantAPI, cache *querycache.Cache, cfg QueryConfig, logger *zap.Logger) *Aggregator {
	if cfg.ResourceStaleTime == 0 {
		cfg.ResourceStaleTime = querycache.ResourceStaleTime
	}
	if cfg.LeaseStaleTime == 0 {
		cfg.LeaseStaleTime = querycache.LeaseStatusStaleTime
	}
	if cfg.Retries == 0 {
		cfg.Retries = querycache.DefaultRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{API: api, Cache: cache, Cfg: cfg, Log: logger}
}

func (a *Aggregator) opts(stale time.Duration) querycache.Options {
	return querycache.Options{
		StaleTime:   stale,
		Retries:     a.Cfg.Retries,
		ShouldRetry: ezraapi.IsRetryable,
	}
}

// Load starts every dashboard fetch and returns at once. The lease status
// is only fetched when the session carries an EZRA user id.
func (a *Aggregator) Load(ctx context.Context, sess *auth.Session) *Board {
	b := newBoard(sess.UserID != "")

	var g errgroup.Group
	g.Go(func() error {
		b.setComplaints(a.Complaints(ctx, sess))
		return nil
	})
	g.Go(func() error {
		b.setWorkOrders(a.WorkOrders(ctx, sess))
		return nil
	})
	g.Go(func() error {
		b.setLockers(a.Lockers(ctx, sess))
		return nil
	})
	g.Go(func() error {
		b.setParking(a.Parking(ctx, sess))
		return nil
	})
	if b.leaseEnabled {
		g.Go(func() error {
			b.setLease(a.LeaseStatus(ctx, sess))
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(b.done)
	}()
	return b
}

// Complaints reads the tenant's complaints through the cache.
func (a *Aggregator) Complaints(ctx context.Context, sess *auth.Session) ([]models.Complaint, error) {
	ts := sess.TokenSource()
	return querycache.Query(ctx, a.Cache, querycache.ComplaintsKey(sess.Subject), a.opts(a.Cfg.ResourceStaleTime),
		func(ctx context.Context) ([]models.Complaint, error) { return a.API.Complaints(ctx, ts) })
}

// WorkOrders reads the tenant's work orders through the cache.
func (a *Aggregator) WorkOrders(ctx context.Context, sess *auth.Session) ([]models.WorkOrder, error) {
	ts := sess.TokenSource()
	return querycache.Query(ctx, a.Cache, querycache.WorkOrdersKey(sess.Subject), a.opts(a.Cfg.ResourceStaleTime),
		func(ctx context.Context) ([]models.WorkOrder, error) { return a.API.WorkOrders(ctx, ts) })
}

// Lockers reads the tenant's pending packages through the cache.
func (a *Aggregator) Lockers(ctx context.Context, sess *auth.Session) ([]models.Locker, error) {
	ts := sess.TokenSource()
	return querycache.Query(ctx, a.Cache, querycache.LockersKey(sess.Subject), a.opts(a.Cfg.ResourceStaleTime),
		func(ctx context.Context) ([]models.Locker, error) { return a.API.Lockers(ctx, ts) })
}

// Parking reads the tenant's guest permits through the cache.
func (a *Aggregator) Parking(ctx context.Context, sess *auth.Session) ([]models.ParkingPermit, error) {
	ts := sess.TokenSource()
	return querycache.Query(ctx, a.Cache, querycache.ParkingKey(sess.Subject), a.opts(a.Cfg.ResourceStaleTime),
		func(ctx context.Context) ([]models.ParkingPermit, error) { return a.API.ParkingPermits(ctx, ts) })
}

// LeaseStatus reads the tenant's lease status through the cache.
func (a *Aggregator) LeaseStatus(ctx context.Context, sess *auth.Session) (models.LeaseSigning, error) {
	if sess.UserID == "" {
		return models.LeaseSigning{}, ezraapi.ErrNoUserID
	}
	ts := sess.TokenSource()
	userID := sess.UserID
	return querycache.Query(ctx, a.Cache, querycache.LeaseStatusKey(sess.Subject), a.opts(a.Cfg.LeaseStaleTime),
		func(ctx context.Context) (models.LeaseSigning, error) { return a.API.LeaseStatus(ctx, ts, userID) })
}
