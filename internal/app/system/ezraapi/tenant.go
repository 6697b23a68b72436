// internal/app/system/ezraapi/tenant.go
package ezraapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/ezraportal/internal/domain/models"
	"golang.org/x/oauth2"
)

// ErrNoUserID is returned by LeaseStatus when the session has no EZRA user id.
var ErrNoUserID = errors.New("ezraapi: lease status requires a user id")

// Complaints lists the tenant's complaints.
func (c *Client) Complaints(ctx context.Context, ts oauth2.TokenSource) ([]models.Complaint, error) {
	var out []models.Complaint
	err := c.do(ctx, ts, call{resource: ResourceComplaints, method: http.MethodGet, path: "/tenant/complaints", out: &out})
	return out, err
}

// CreateComplaint files a complaint.
func (c *Client) CreateComplaint(ctx context.Context, ts oauth2.TokenSource, nc models.NewComplaint) error {
	return c.do(ctx, ts, call{resource: ResourceComplaints, method: http.MethodPost, path: "/tenant/complaints", body: nc})
}

// WorkOrders lists the tenant's work orders.
func (c *Client) WorkOrders(ctx context.Context, ts oauth2.TokenSource) ([]models.WorkOrder, error) {
	var out []models.WorkOrder
	err := c.do(ctx, ts, call{resource: ResourceWorkOrders, method: http.MethodGet, path: "/tenant/work_orders", out: &out})
	return out, err
}

// Lockers lists lockers holding packages for the tenant.
func (c *Client) Lockers(ctx context.Context, ts oauth2.TokenSource) ([]models.Locker, error) {
	var out []models.Locker
	err := c.do(ctx, ts, call{resource: ResourceLockers, method: http.MethodGet, path: "/tenant/lockers", out: &out})
	return out, err
}

// UnlockLocker opens the tenant's assigned locker.
func (c *Client) UnlockLocker(ctx context.Context, ts oauth2.TokenSource) error {
	return c.do(ctx, ts, call{resource: ResourceLockers, method: http.MethodPost, path: "/tenants/lockers/unlock"})
}

// ParkingPermits lists the tenant's guest parking permits.
func (c *Client) ParkingPermits(ctx context.Context, ts oauth2.TokenSource) ([]models.ParkingPermit, error) {
	var out []models.ParkingPermit
	err := c.do(ctx, ts, call{resource: ResourceParking, method: http.MethodGet, path: "/tenant/parking", out: &out})
	return out, err
}

// CreateParkingPermit requests a guest parking permit.
func (c *Client) CreateParkingPermit(ctx context.Context, ts oauth2.TokenSource, p models.NewParkingPermit) error {
	return c.do(ctx, ts, call{resource: ResourceParking, method: http.MethodPost, path: "/tenant/parking", body: p})
}

// LeaseStatus fetches the lease status and signing URL for userID.
func (c *Client) LeaseStatus(ctx context.Context, ts oauth2.TokenSource, userID string) (models.LeaseSigning, error) {
	var out models.LeaseSigning
	if userID == "" {
		return out, ErrNoUserID
	}
	path := "/tenant/leases/" + url.PathEscape(userID) + "/signing-url"
	err := c.do(ctx, ts, call{resource: ResourceLeaseStatus, method: http.MethodGet, path: path, out: &out})
	return out, err
}
