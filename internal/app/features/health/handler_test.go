package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/ezraportal/internal/app/features/health"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/testutil"
	"go.uber.org/zap"
)

func TestServe_UpstreamReachable(t *testing.T) {
	fake := testutil.NewFakeEZRA(t)
	client := ezraapi.NewClient(fake.URL(), nil, zap.NewNop())
	handler := health.NewHandler(client, zap.NewNop())

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var response struct {
		Status   string `json:"status"`
		Upstream string `json:"upstream"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("status: got %q, want %q", response.Status, "ok")
	}
	if response.Upstream != "reachable" {
		t.Errorf("upstream: got %q, want %q", response.Upstream, "reachable")
	}
}

func TestServe_UpstreamDown(t *testing.T) {
	fake := testutil.NewFakeEZRA(t)
	url := fake.URL()
	fake.Server.Close()

	handler := health.NewHandler(ezraapi.NewClient(url, nil, zap.NewNop()), zap.NewNop())
	rec := httptest.NewRecorder()
	handler.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}
