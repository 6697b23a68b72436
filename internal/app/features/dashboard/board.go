// internal/app/features/dashboard/board.go
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/domain/models"
)

// slot is the settle-once state of one resource fetch.
type slot[T any] struct {
	loading bool
	err     error
	data    T
	has     bool
}

func (s *slot[T]) settle(v T, err error) {
	s.loading = false
	if err != nil {
		s.err = err
		return
	}
	s.data = v
	s.has = true
}

// Board collects the dashboard's resources as their fetches settle, in
// whatever order that happens. Snapshot may be taken at any time.
type Board struct {
	mu           sync.RWMutex
	complaints   slot[[]models.Complaint]
	workOrders   slot[[]models.WorkOrder]
	lockers      slot[[]models.Locker]
	parking      slot[[]models.ParkingPermit]
	lease        slot[models.LeaseSigning]
	leaseEnabled bool
	done         chan struct{}
}

func newBoard(leaseEnabled bool) *Board {
	b := &Board{leaseEnabled: leaseEnabled, done: make(chan struct{})}
	b.complaints.loading = true
	b.workOrders.loading = true
	b.lockers.loading = true
	b.parking.loading = true
	b.lease.loading = leaseEnabled
	return b
}

func (b *Board) setComplaints(v []models.Complaint, err error) {
	b.mu.Lock()
	b.complaints.settle(v, err)
	b.mu.Unlock()
}

func (b *Board) setWorkOrders(v []models.WorkOrder, err error) {
	b.mu.Lock()
	b.workOrders.settle(v, err)
	b.mu.Unlock()
}

func (b *Board) setLockers(v []models.Locker, err error) {
	b.mu.Lock()
	b.lockers.settle(v, err)
	b.mu.Unlock()
}

func (b *Board) setParking(v []models.ParkingPermit, err error) {
	b.mu.Lock()
	b.parking.settle(v, err)
	b.mu.Unlock()
}

func (b *Board) setLease(v models.LeaseSigning, err error) {
	b.mu.Lock()
	b.lease.settle(v, err)
	b.mu.Unlock()
}

// Wait blocks until every fetch has settled or ctx ends. It reports
// whether the board is complete.
func (b *Board) Wait(ctx context.Context) bool {
	select {
	case <-b.done:
		return true
	case <-ctx.Done():
		return false
	}
}

// Done is closed once every fetch has settled.
func (b *Board) Done() <-chan struct{} { return b.done }

// Loading flags per resource.
type Loading struct {
	Complaints  bool `json:"complaints"`
	WorkOrders  bool `json:"work_orders"`
	Lockers     bool `json:"lockers"`
	Parking     bool `json:"parking"`
	LeaseStatus bool `json:"lease_status"`
}

// Counts are the card values; zero while data is absent.
type Counts struct {
	Complaints int `json:"complaints"`
	WorkOrders int `json:"work_orders"`
	Lockers    int `json:"lockers"`
	Parking    int `json:"parking"`
}

// Action is a dashboard trigger and whether it may be used.
type Action struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// Actions are the tenant's quick actions.
type Actions struct {
	OpenLocker      Action `json:"open_locker"`
	AddGuestParking Action `json:"add_guest_parking"`
	FileComplaint   Action `json:"file_complaint"`
}

// Snapshot is the dashboard view model at one instant.
type Snapshot struct {
	InitialLoading bool                   `json:"initial_loading"`
	Complete       bool                   `json:"complete"`
	Loading        Loading                `json:"loading"`
	Complaints     []models.Complaint     `json:"complaints"`
	WorkOrders     []models.WorkOrder     `json:"work_orders"`
	Lockers        []models.Locker        `json:"lockers"`
	Parking        []models.ParkingPermit `json:"parking"`
	LeaseStatus    *models.LeaseSigning   `json:"lease_status,omitempty"`
	Counts         Counts                 `json:"counts"`
	Errors         []string               `json:"errors"`
	ErrorDetails   []ErrorDetail          `json:"error_details,omitempty"`
	Critical       bool                   `json:"critical"`
	Banner         *Banner                `json:"banner,omitempty"`
	SigningGate    *SigningGate           `json:"signing_gate,omitempty"`
	Actions        Actions                `json:"actions"`
}

type failure struct {
	name string
	err  error
}

// Snapshot returns the board's current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		Loading: Loading{
			Complaints:  b.complaints.loading,
			WorkOrders:  b.workOrders.loading,
			Lockers:     b.lockers.loading,
			Parking:     b.parking.loading,
			LeaseStatus: b.lease.loading,
		},
		Complaints: b.complaints.data,
		WorkOrders: b.workOrders.data,
		Lockers:    b.lockers.data,
		Parking:    b.parking.data,
		Errors:     []string{},
	}
	s.InitialLoading = s.Loading.Complaints && s.Loading.WorkOrders && s.Loading.Lockers && s.Loading.Parking
	s.Complete = !s.Loading.Complaints && !s.Loading.WorkOrders && !s.Loading.Lockers &&
		!s.Loading.Parking && !s.Loading.LeaseStatus

	s.Counts = Counts{
		Complaints: len(b.complaints.data),
		WorkOrders: len(b.workOrders.data),
		Lockers:    len(b.lockers.data),
		Parking:    len(b.parking.data),
	}

	failed := []failure{
		{ezraapi.ResourceComplaints, b.complaints.err},
		{ezraapi.ResourceWorkOrders, b.workOrders.err},
		{ezraapi.ResourceLockers, b.lockers.err},
		{ezraapi.ResourceParking, b.parking.err},
	}
	if b.leaseEnabled {
		failed = append(failed, failure{ezraapi.ResourceLeaseStatus, b.lease.err})
	}
	var causes []error
	for _, f := range failed {
		if f.err == nil || errors.Is(f.err, context.Canceled) {
			continue
		}
		s.Errors = append(s.Errors, f.name)
		s.ErrorDetails = append(s.ErrorDetails, detailFor(f.name, f.err))
		causes = append(causes, f.err)
	}
	s.Critical = ErrorsCritical(causes)
	s.Banner = BannerFor(s.Errors)

	if b.lease.has {
		ls := b.lease.data
		s.LeaseStatus = &ls
		s.SigningGate = GateFor(ls)
	}

	s.Actions = Actions{
		OpenLocker:      Action{Enabled: s.Counts.Lockers > 0},
		AddGuestParking: Action{Enabled: s.Counts.Parking < models.MaxGuestParkingPermits},
		FileComplaint:   Action{Enabled: true},
	}
	if !s.Actions.OpenLocker.Enabled {
		s.Actions.OpenLocker.Reason = "No packages waiting"
	}
	if !s.Actions.AddGuestParking.Enabled {
		s.Actions.AddGuestParking.Reason = "Guest parking limit reached"
	}
	return s
}
