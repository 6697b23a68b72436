// internal/domain/models/locker.go
package models

// Locker is a smart-locker slot holding a pending package for the tenant
// (GET /tenant/lockers). Each record is one package waiting for pickup.
type Locker struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id,omitempty"`
	InUse  bool  `json:"in_use"`
}
