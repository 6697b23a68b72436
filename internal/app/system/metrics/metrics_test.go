package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamTotal.WithLabelValues("work orders", OutcomeFailed))

	ObserveUpstream("work orders", OutcomeFailed, 20*time.Millisecond)

	after := testutil.ToFloat64(upstreamTotal.WithLabelValues("work orders", OutcomeFailed))
	if after != before+1 {
		t.Fatalf("upstream counter: got %v, want %v", after, before+1)
	}
}

func TestInstrument_RecordsStatus(t *testing.T) {
	h := Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/brew", "418"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/brew", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status: got %d", rec.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/brew", "418"))
	if after != before+1 {
		t.Fatalf("request counter: got %v, want %v", after, before+1)
	}
}

func TestHandler_ExposesCollectors(t *testing.T) {
	Init()
	Init() // idempotent
	ObserveCache("hit")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "ezra_query_cache_total") {
		t.Error("expected ezra_query_cache_total in exposition")
	}
}
