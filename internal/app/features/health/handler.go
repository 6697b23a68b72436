package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Pinger reports whether the EZRA API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	API Pinger
	Log *zap.Logger
}

// NewHandler constructs a health Handler with the API client and logger.
func NewHandler(api Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		API: api,
		Log: logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "upstream":"reachable" }
//
// When the EZRA API cannot be reached: 503 and
//
//	{ "status":"error", "upstream":"unreachable", "message":"EZRA API unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.API.Ping(ctx); err != nil {
		h.Log.Error("health-check: upstream ping failed", zap.Error(err))
		viewdata.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Upstream: "unreachable",
			Message:  "EZRA API unavailable",
			Error:    err.Error(),
		})
		return
	}

	viewdata.JSON(w, http.StatusOK, healthResponse{Status: "ok", Upstream: "reachable"})
}
