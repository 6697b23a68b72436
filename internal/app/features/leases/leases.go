// Package leases is the admin lease table: listing every lease with its
// derived status and available actions, and terminating leases.
package leases

import (
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/dalemusser/ezraportal/internal/domain/models"
)

// ExpiresSoonWindow is how close to its end an active lease is flagged.
const ExpiresSoonWindow = 60

const dateLayout = "2006-01-02"

// Row is one lease as shown in the admin table.
type Row struct {
	ID             int64    `json:"id"`
	TenantID       int64    `json:"tenantId"`
	ApartmentID    int64    `json:"apartmentId"`
	TenantName     string   `json:"tenantName"`
	TenantEmail    string   `json:"tenantEmail"`
	Apartment      string   `json:"apartment"`
	LeaseStartDate string   `json:"leaseStartDate"`
	LeaseEndDate   string   `json:"leaseEndDate"`
	RentAmount     float64  `json:"rentAmount"` // dollars
	Status         string   `json:"status"`
	AdminDocURL    string   `json:"adminDocUrl,omitempty"`
	Actions        []string `json:"actions"`
}

// Filter is one option of the status column filter.
type Filter struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// DefaultFilters is used when there are no leases to derive filters from.
var DefaultFilters = []Filter{
	{Text: "Active", Value: models.LeaseActive},
	{Text: "Expires Soon", Value: models.LeaseExpiresSoon},
	{Text: "Expired", Value: models.LeaseExpired},
	{Text: "Draft", Value: models.LeaseDraft},
	{Text: "Terminated", Value: models.LeaseTerminated},
	{Text: "Pending Approval", Value: models.LeasePendingApproval},
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func formatDate(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format(dateLayout)
	}
	return s
}

// DeriveStatus flags an active lease ending within ExpiresSoonWindow days
// (whole days, truncated) as expires_soon. Every other status is kept.
func DeriveStatus(status, endDate string, now time.Time) string {
	if status != models.LeaseActive {
		return status
	}
	end, ok := parseDate(endDate)
	if !ok {
		return status
	}
	days := int(end.Sub(now).Hours() / 24)
	if days <= ExpiresSoonWindow {
		return models.LeaseExpiresSoon
	}
	return status
}

// MapLease converts an EZRA lease into a table row.
func MapLease(l models.Lease, now time.Time) Row {
	status := DeriveStatus(l.Status, l.LeaseEndDate, now)
	return Row{
		ID:             l.ID,
		TenantID:       l.TenantID,
		ApartmentID:    l.ApartmentID,
		TenantName:     l.TenantName,
		TenantEmail:    l.TenantEmail,
		Apartment:      l.Apartment,
		LeaseStartDate: formatDate(l.LeaseStartDate),
		LeaseEndDate:   formatDate(l.LeaseEndDate),
		RentAmount:     float64(l.RentAmount) / 100,
		Status:         status,
		AdminDocURL:    l.AdminDocURL,
		Actions:        authz.LeaseActions(status, l.AdminDocURL != ""),
	}
}

// MapLeases converts every lease.
func MapLeases(ls []models.Lease, now time.Time) []Row {
	rows := make([]Row, 0, len(ls))
	for _, l := range ls {
		rows = append(rows, MapLease(l, now))
	}
	return rows
}

// TitleCase turns "expires_soon" into "Expires Soon".
func TitleCase(status string) string {
	words := strings.Fields(strings.ReplaceAll(status, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// StatusFilters lists the distinct statuses in rows, sorted by label.
func StatusFilters(rows []Row) []Filter {
	seen := make(map[string]bool)
	var out []Filter
	for _, r := range rows {
		if r.Status == "" || seen[r.Status] {
			continue
		}
		seen[r.Status] = true
		out = append(out, Filter{Text: TitleCase(r.Status), Value: r.Status})
	}
	if len(out) == 0 {
		return append([]Filter(nil), DefaultFilters...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}
