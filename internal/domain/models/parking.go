// internal/domain/models/parking.go
package models

import "time"

// MaxGuestParkingPermits is how many active guest permits a tenant may hold.
const MaxGuestParkingPermits = 2

// ParkingPermit is a guest parking permit (GET /tenant/parking).
type ParkingPermit struct {
	ID           int64     `json:"id"`
	PermitNumber int64     `json:"permit_number,omitempty"`
	CreatedBy    int64     `json:"created_by,omitempty"`
	GuestName    string    `json:"name,omitempty"`
	LicensePlate string    `json:"license_plate,omitempty"`
	CarMake      string    `json:"car_make,omitempty"`
	CarColor     string    `json:"car_color,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// NewParkingPermit is the body of POST /tenant/parking. The hyphenated keys
// are what the EZRA API expects.
type NewParkingPermit struct {
	Name               string `json:"name"`
	CarColor           string `json:"car-color"`
	CarModel           string `json:"car-model"`
	LicensePlateNumber string `json:"license-plate-number"`
}
