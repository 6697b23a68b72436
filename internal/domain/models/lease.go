// internal/domain/models/lease.go
package models

// LeaseStatus values as computed by the EZRA API.
const (
	LeaseNoLease         = "no_lease"
	LeaseDraft           = "draft"
	LeasePendingApproval = "pending_approval"
	LeaseActive          = "active"
	LeaseExpiresSoon     = "expires_soon"
	LeaseExpired         = "expired"
	LeaseTerminated      = "terminated"
)

// LeaseStatuses is the closed set of lease statuses, in display order.
var LeaseStatuses = []string{
	LeaseActive,
	LeaseExpiresSoon,
	LeaseExpired,
	LeaseDraft,
	LeaseTerminated,
	LeasePendingApproval,
}

// LeaseSigning is the body of GET /tenant/leases/{userId}/signing-url.
type LeaseSigning struct {
	Status     string `json:"lease_status"`
	SigningURL string `json:"url,omitempty"`
}

// Lease is one row of GET /admin/leases/. RentAmount is in cents.
type Lease struct {
	ID             int64  `json:"id"`
	TenantID       int64  `json:"tenantId"`
	ApartmentID    int64  `json:"apartmentId"`
	TenantEmail    string `json:"tenantEmail"`
	TenantName     string `json:"tenantName"`
	Apartment      string `json:"apartment"`
	LeaseStartDate string `json:"leaseStartDate"`
	LeaseEndDate   string `json:"leaseEndDate"`
	RentAmount     int64  `json:"rentAmount"`
	Status         string `json:"status"`
	AdminDocURL    string `json:"admin_doc_url,omitempty"`
}

// TerminateLease is the body of POST /admin/leases/terminate/{id}.
type TerminateLease struct {
	ID        int64 `json:"id"`
	UpdatedBy int64 `json:"updated_by"`
}
