package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/features/dashboard"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type stubAPI struct {
	complaintsErr, workOrdersErr, lockersErr, parkingErr, leaseErr error

	lockers    []models.Locker
	parking    []models.ParkingPermit
	lease      models.LeaseSigning
	block      chan struct{} // when set, work orders wait on it
	leaseCalls int32
}

func (s *stubAPI) Complaints(ctx context.Context, ts oauth2.TokenSource) ([]models.Complaint, error) {
	if s.complaintsErr != nil {
		return nil, s.complaintsErr
	}
	return []models.Complaint{{ID: 1}, {ID: 2}}, nil
}

func (s *stubAPI) WorkOrders(ctx context.Context, ts oauth2.TokenSource) ([]models.WorkOrder, error) {
	if s.block != nil {
		<-s.block
	}
	if s.workOrdersErr != nil {
		return nil, s.workOrdersErr
	}
	return []models.WorkOrder{{ID: 1}}, nil
}

func (s *stubAPI) Lockers(ctx context.Context, ts oauth2.TokenSource) ([]models.Locker, error) {
	return s.lockers, s.lockersErr
}

func (s *stubAPI) ParkingPermits(ctx context.Context, ts oauth2.TokenSource) ([]models.ParkingPermit, error) {
	return s.parking, s.parkingErr
}

func (s *stubAPI) LeaseStatus(ctx context.Context, ts oauth2.TokenSource, userID string) (models.LeaseSigning, error) {
	atomic.AddInt32(&s.leaseCalls, 1)
	return s.lease, s.leaseErr
}

func tenant(userID string) *auth.Session {
	return &auth.Session{
		Loaded:   true,
		SignedIn: true,
		Role:     authz.RoleTenant,
		Subject:  "user_t1",
		UserID:   userID,
		Name:     "Terry Tenant",
		Tokens:   oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}),
	}
}

func newAggregator(api dashboard.TenantAPI) *dashboard.Aggregator {
	return dashboard.NewAggregator(api, querycache.New(zap.NewNop()), dashboard.QueryConfig{Retries: -1}, zap.NewNop())
}

func load(t *testing.T, api dashboard.TenantAPI, sess *auth.Session) dashboard.Snapshot {
	t.Helper()
	b := newAggregator(api).Load(context.Background(), sess)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !b.Wait(ctx) {
		t.Fatal("board did not settle")
	}
	return b.Snapshot()
}

func TestLoad_AllSucceed(t *testing.T) {
	api := &stubAPI{
		lockers: []models.Locker{{ID: 1}, {ID: 2}, {ID: 3}},
		parking: []models.ParkingPermit{{ID: 1}},
		lease:   models.LeaseSigning{Status: models.LeaseActive},
	}
	s := load(t, api, tenant("42"))

	if s.InitialLoading {
		t.Error("expected initial loading to be false once settled")
	}
	want := dashboard.Counts{Complaints: 2, WorkOrders: 1, Lockers: 3, Parking: 1}
	if s.Counts != want {
		t.Errorf("counts = %+v, want %+v", s.Counts, want)
	}
	if len(s.Errors) != 0 || s.Banner != nil {
		t.Errorf("expected no errors, got %v", s.Errors)
	}
	if s.SigningGate != nil {
		t.Error("active lease must not produce a gate")
	}
	if !s.Actions.OpenLocker.Enabled || !s.Actions.AddGuestParking.Enabled {
		t.Errorf("unexpected actions: %+v", s.Actions)
	}
}

func TestLoad_ErrorsInFixedOrder(t *testing.T) {
	boom := &ezraapi.RequestFailedError{StatusCode: 500}
	api := &stubAPI{
		parkingErr:    boom,
		complaintsErr: boom,
		leaseErr:      boom,
		lockersErr:    boom,
	}
	s := load(t, api, tenant("42"))

	want := []string{"complaints", "package information", "parking permits", "lease status"}
	if !reflect.DeepEqual(s.Errors, want) {
		t.Errorf("errors = %v, want %v", s.Errors, want)
	}
	if s.Banner == nil {
		t.Fatal("expected banner")
	}
	if s.Banner.Title != "Data Loading Error" ||
		s.Banner.Message != "Unable to load: complaints, package information, parking permits, lease status" {
		t.Errorf("unexpected banner: %+v", s.Banner)
	}
	if s.Counts.WorkOrders != 1 {
		t.Error("successful resources still render")
	}
	if s.Critical {
		t.Error("5xx failures are not critical")
	}
}

func TestLoad_AuthFailureIsCritical(t *testing.T) {
	s := load(t, &stubAPI{complaintsErr: ezraapi.ErrUnauthorized}, tenant("42"))
	if !s.Critical {
		t.Error("auth failure should be critical")
	}
	if len(s.ErrorDetails) != 1 || s.ErrorDetails[0].Severity != "error" {
		t.Errorf("unexpected error details: %+v", s.ErrorDetails)
	}
}

func TestLoad_NoUserIDSkipsLease(t *testing.T) {
	api := &stubAPI{}
	s := load(t, api, tenant(""))
	if api.leaseCalls != 0 {
		t.Errorf("lease status must not be fetched without a user id, got %d calls", api.leaseCalls)
	}
	if s.LeaseStatus != nil || s.Loading.LeaseStatus {
		t.Errorf("expected no lease state, got %+v", s.LeaseStatus)
	}
	for _, e := range s.Errors {
		if e == "lease status" {
			t.Error("skipped lease fetch must not be reported as an error")
		}
	}
}

func TestBoard_PartialSnapshot(t *testing.T) {
	api := &stubAPI{block: make(chan struct{})}
	b := newAggregator(api).Load(context.Background(), tenant("42"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if b.Wait(ctx) {
		t.Fatal("board should not be complete while work orders are blocked")
	}

	s := b.Snapshot()
	if !s.Loading.WorkOrders {
		t.Error("work orders should still be loading")
	}
	if s.InitialLoading {
		t.Error("initial loading is false once any resource has resolved")
	}
	if s.Counts.Complaints != 2 {
		t.Errorf("complaints should be visible already, got %d", s.Counts.Complaints)
	}

	close(api.block)
	<-b.Done()
	if b.Snapshot().Loading.WorkOrders {
		t.Error("work orders should have settled")
	}
}

func TestActions_Thresholds(t *testing.T) {
	api := &stubAPI{parking: []models.ParkingPermit{{ID: 1}, {ID: 2}}}
	s := load(t, api, tenant("42"))
	if s.Actions.OpenLocker.Enabled {
		t.Error("open locker must be disabled with zero packages")
	}
	if s.Actions.AddGuestParking.Enabled {
		t.Error("add guest parking must be disabled at two permits")
	}
}

func TestRequiresSigning(t *testing.T) {
	for _, st := range models.LeaseStatuses {
		want := st == models.LeasePendingApproval || st == models.LeaseTerminated || st == models.LeaseExpired
		if got := dashboard.RequiresSigning(st); got != want {
			t.Errorf("RequiresSigning(%q) = %v, want %v", st, got, want)
		}
	}
	if dashboard.RequiresSigning(models.LeaseNoLease) || dashboard.RequiresSigning("") {
		t.Error("no_lease and unknown statuses never gate")
	}
}

func TestGateFor(t *testing.T) {
	g := dashboard.GateFor(models.LeaseSigning{Status: models.LeasePendingApproval, SigningURL: "https://sign"})
	if g == nil {
		t.Fatal("expected gate")
	}
	if !g.Required || g.Dismissible || g.Closable || g.MaskClosable || g.Keyboard {
		t.Errorf("gate must not be dismissable: %+v", g)
	}
	if g.StatusLabel != "Pending Approval" {
		t.Errorf("unexpected status label %q", g.StatusLabel)
	}
	if g.Action.Href != dashboard.SignPath || g.Action.Label != "Sign Lease Now" {
		t.Errorf("unexpected action %+v", g.Action)
	}
	if dashboard.GateFor(models.LeaseSigning{Status: models.LeaseActive}) != nil {
		t.Error("active lease must not gate")
	}
}

func TestErrorMessage(t *testing.T) {
	if got := dashboard.ErrorMessage(nil); got != "" {
		t.Errorf("expected empty message, got %q", got)
	}
	if got := dashboard.ErrorMessage([]string{"work orders"}); got != "Unable to load work orders data" {
		t.Errorf("unexpected single message %q", got)
	}
	got := dashboard.ErrorMessage([]string{"complaints", "mystery"})
	if got != "Multiple issues detected: Unable to load complaints data, mystery" {
		t.Errorf("unexpected multi message %q", got)
	}
}

func TestErrorsCritical(t *testing.T) {
	if dashboard.ErrorsCritical([]error{errors.New("x")}) {
		t.Error("plain error is not critical")
	}
	if !dashboard.ErrorsCritical([]error{&ezraapi.NetworkError{Err: errors.New("refused")}}) {
		t.Error("network error is critical")
	}
}

func serveThroughGate(t *testing.T, api dashboard.TenantAPI, path, accept string) *httptest.ResponseRecorder {
	t.Helper()
	mw := dashboard.GateMiddleware(newAggregator(api), zap.NewNop())
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", accept)
	req = auth.WithTestSession(req, tenant("42"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGateMiddleware(t *testing.T) {
	gated := &stubAPI{lease: models.LeaseSigning{Status: models.LeaseExpired}}

	if rec := serveThroughGate(t, gated, "/tenant/api/complaints", "application/json"); rec.Code != http.StatusLocked {
		t.Errorf("expected status %d, got %d", http.StatusLocked, rec.Code)
	}
	rec := serveThroughGate(t, gated, "/tenant/api/parking", "text/html")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/tenant" {
		t.Errorf("expected redirect to /tenant, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	for _, p := range []string{"/tenant", "/tenant/api/dashboard", dashboard.SignPath} {
		if rec := serveThroughGate(t, gated, p, "application/json"); rec.Code != http.StatusOK {
			t.Errorf("%s should stay reachable, got %d", p, rec.Code)
		}
	}

	open := &stubAPI{lease: models.LeaseSigning{Status: models.LeaseActive}}
	if rec := serveThroughGate(t, open, "/tenant/api/complaints", "application/json"); rec.Code != http.StatusOK {
		t.Errorf("active lease should pass, got %d", rec.Code)
	}

	failing := &stubAPI{leaseErr: errors.New("down")}
	if rec := serveThroughGate(t, failing, "/tenant/api/complaints", "application/json"); rec.Code != http.StatusOK {
		t.Errorf("unknown lease status should not block, got %d", rec.Code)
	}
}

func TestServeTenantAPI(t *testing.T) {
	api := &stubAPI{lease: models.LeaseSigning{Status: models.LeaseTerminated}}
	h := dashboard.NewHandler(newAggregator(api), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/tenant/api/dashboard", nil)
	req = auth.WithTestSession(req, tenant("42"))
	rec := httptest.NewRecorder()
	h.ServeTenantAPI(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var body struct {
		Counts      dashboard.Counts       `json:"counts"`
		SigningGate *dashboard.SigningGate `json:"signing_gate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Counts.Complaints != 2 {
		t.Errorf("expected 2 complaints, got %d", body.Counts.Complaints)
	}
	if body.SigningGate == nil || !body.SigningGate.Required {
		t.Error("terminated lease should carry the signing gate")
	}
}

func TestServeAdmin(t *testing.T) {
	h := dashboard.NewHandler(newAggregator(&stubAPI{}), zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeAdmin(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
