package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/ezraportal/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// FakeEZRA is an in-memory EZRA API. Tenant routes require a bearer token
// listed in Tokens; Fail forces a status for a path.
type FakeEZRA struct {
	Server *httptest.Server

	mu          sync.Mutex
	Tokens      map[string]bool
	Fail        map[string]int
	Complaints  []models.Complaint
	WorkOrders  []models.WorkOrder
	Lockers     []models.Locker
	Parking     []models.ParkingPermit
	Lease       models.LeaseSigning
	Leases      []models.Lease
	Terminated  []models.TerminateLease
	Unlocks     int
	Hits        map[string]int
	ChatReplies []string
}

// NewFakeEZRA starts a fake API seeded with one record of each kind. It
// accepts the tokens of TenantUser and AdminUser.
func NewFakeEZRA(t testing.TB) *FakeEZRA {
	t.Helper()
	f := &FakeEZRA{
		Tokens:     map[string]bool{TenantUser().Token: true, AdminUser().Token: true},
		Fail:       map[string]int{},
		Hits:       map[string]int{},
		Complaints: []models.Complaint{{ID: 1, Title: "Leaky faucet", Category: "maintenance", Status: "open"}},
		WorkOrders: []models.WorkOrder{{ID: 1, Title: "Fix faucet", Category: "plumbing", Status: "open"}},
		Lockers:    []models.Locker{{ID: 1, InUse: true}},
		Parking:    []models.ParkingPermit{{ID: 1, GuestName: "Sam", LicensePlate: "ABC123"}},
		Lease:      models.LeaseSigning{Status: models.LeaseActive},
		Leases: []models.Lease{
			{ID: 11, TenantName: "Test Tenant", Status: models.LeaseActive, LeaseEndDate: "2099-01-01", RentAmount: 150000},
		},
	}

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/api/chat", f.chat)
	r.Group(func(pr chi.Router) {
		pr.Use(f.authorize)
		pr.Get("/tenant/complaints", f.list(func() any { return f.Complaints }))
		pr.Post("/tenant/complaints", f.createComplaint)
		pr.Get("/tenant/work_orders", f.list(func() any { return f.WorkOrders }))
		pr.Get("/tenant/lockers", f.list(func() any { return f.Lockers }))
		pr.Post("/tenants/lockers/unlock", f.unlock)
		pr.Get("/tenant/parking", f.list(func() any { return f.Parking }))
		pr.Post("/tenant/parking", f.createPermit)
		pr.Get("/tenant/leases/{id}/signing-url", f.list(func() any { return f.Lease }))
		pr.Get("/admin/leases/", f.list(func() any { return f.Leases }))
		pr.Post("/admin/leases/terminate/{id}", f.terminate)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL.
func (f *FakeEZRA) URL() string { return f.Server.URL }

// HitCount returns how many requests reached path.
func (f *FakeEZRA) HitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Hits[path]
}

// SetFail forces status for path; 0 clears it.
func (f *FakeEZRA) SetFail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.Fail, path)
		return
	}
	f.Fail[path] = status
}

func (f *FakeEZRA) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.Hits[r.URL.Path]++
		status := f.Fail[r.URL.Path]
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		ok := f.Tokens[tok]
		f.mu.Unlock()

		switch {
		case !ok:
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		case status != 0:
			http.Error(w, `{"error":"forced"}`, status)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (f *FakeEZRA) list(get func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		v := get()
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, v)
	}
}

func (f *FakeEZRA) createComplaint(w http.ResponseWriter, r *http.Request) {
	var nc models.NewComplaint
	if err := json.NewDecoder(r.Body).Decode(&nc); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	c := models.Complaint{ID: int64(len(f.Complaints) + 1), Title: nc.Title, Description: nc.Description, Category: nc.Category, Status: "open"}
	f.Complaints = append(f.Complaints, c)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeEZRA) createPermit(w http.ResponseWriter, r *http.Request) {
	var p models.NewParkingPermit
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.Parking = append(f.Parking, models.ParkingPermit{ID: int64(len(f.Parking) + 1), GuestName: p.Name, LicensePlate: p.LicensePlateNumber})
	f.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (f *FakeEZRA) unlock(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.Unlocks++
	f.Lockers = nil
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeEZRA) terminate(w http.ResponseWriter, r *http.Request) {
	var body models.TerminateLease
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Terminated = append(f.Terminated, body)
	for i := range f.Leases {
		if f.Leases[i].ID == id {
			f.Leases[i].Status = models.LeaseTerminated
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeEZRA) chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.Hits[r.URL.Path]++
	status := f.Fail[r.URL.Path]
	reply := "How can I help?"
	if len(f.ChatReplies) > 0 {
		reply, f.ChatReplies = f.ChatReplies[0], f.ChatReplies[1:]
	}
	f.mu.Unlock()
	if status != 0 {
		http.Error(w, "forced", status)
		return
	}
	writeJSON(w, http.StatusOK, models.ChatReply{Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
