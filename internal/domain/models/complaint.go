// internal/domain/models/complaint.go
package models

import "time"

// Complaint is a tenant complaint as returned by GET /tenant/complaints.
// Records are owned by the EZRA API; the portal mirrors them read-only.
type Complaint struct {
	ID              int64     `json:"id"`
	ComplaintNumber int64     `json:"complaint_number,omitempty"`
	CreatedBy       int64     `json:"created_by,omitempty"`
	Category        string    `json:"category"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	UnitNumber      int64     `json:"unit_number,omitempty"`
	Status          string    `json:"status"` // open | in_progress | resolved | closed
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// NewComplaint is the body of POST /tenant/complaints.
type NewComplaint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ComplaintCategories lists the categories a tenant may file under.
var ComplaintCategories = []string{
	"maintenance",
	"noise",
	"security",
	"parking",
	"neighbor",
	"trash",
	"internet",
	"lease",
	"natural_disaster",
	"other",
}
