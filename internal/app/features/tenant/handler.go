// Package tenant serves the tenant's resource lists and mutations. Every
// read goes through the query cache shared with the dashboard; every
// successful mutation invalidates exactly the key it changed.
package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/features/dashboard"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const maxBody = 64 << 10

// API is the slice of the EZRA API the tenant mutations call.
type API interface {
	CreateComplaint(ctx context.Context, ts oauth2.TokenSource, nc models.NewComplaint) error
	CreateParkingPermit(ctx context.Context, ts oauth2.TokenSource, p models.NewParkingPermit) error
	UnlockLocker(ctx context.Context, ts oauth2.TokenSource) error
}

type Handler struct {
	API   API
	Agg   *dashboard.Aggregator
	Cache *querycache.Cache
	Log   *zap.Logger
}

func NewHandler(api API, agg *dashboard.Aggregator, cache *querycache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		API:   api,
		Agg:   agg,
		Cache: cache,
		Log:   logger,
	}
}

type result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
