// internal/domain/models/workorder.go
package models

import "time"

// WorkOrder is a maintenance work order as returned by GET /tenant/work_orders.
type WorkOrder struct {
	ID          int64     `json:"id"`
	OrderNumber int64     `json:"order_number,omitempty"`
	CreatedBy   int64     `json:"created_by,omitempty"`
	Category    string    `json:"category"` // plumbing | electric | carpentry | hvac | other
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UnitNumber  int64     `json:"unit_number,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
