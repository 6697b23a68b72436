// internal/app/features/dashboard/banner.go
package dashboard

import (
	"errors"
	"strings"

	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
)

// Banner is the non-blocking alert shown when some resources failed.
type Banner struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Dismissible bool   `json:"dismissible"`
}

// ErrorDetail describes one failed resource.
type ErrorDetail struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // error | warning
}

// Friendly messages by failure name.
var errorMessages = map[string]string{
	ezraapi.ResourceComplaints:  "Unable to load complaints data",
	ezraapi.ResourceWorkOrders:  "Unable to load work orders data",
	ezraapi.ResourceLockers:     "Unable to load package information",
	ezraapi.ResourceParking:     "Unable to load parking permits data",
	ezraapi.ResourceLeaseStatus: "Unable to load lease status",
	"network":                   "Network connection error",
	"authentication":            "Authentication failed",
	"unknown":                   "An unexpected error occurred",
}

// MessageFor returns the friendly message for name, or name itself.
func MessageFor(name string) string {
	if m, ok := errorMessages[name]; ok {
		return m
	}
	return name
}

// ErrorMessage joins the friendly messages for names into one line.
func ErrorMessage(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return MessageFor(names[0])
	}
	msgs := make([]string, len(names))
	for i, n := range names {
		msgs[i] = MessageFor(n)
	}
	return "Multiple issues detected: " + strings.Join(msgs, ", ")
}

// ErrorsCritical reports whether any failure is an auth or network
// failure, which blocks normal operation rather than one card.
func ErrorsCritical(causes []error) bool {
	for _, err := range causes {
		if errors.Is(err, ezraapi.ErrUnauthorized) || ezraapi.IsNetwork(err) {
			return true
		}
	}
	return false
}

// BannerFor builds the alert for the failed resource names, or nil.
func BannerFor(names []string) *Banner {
	if len(names) == 0 {
		return nil
	}
	return &Banner{
		Title:       "Data Loading Error",
		Message:     "Unable to load: " + strings.Join(names, ", "),
		Description: "Please refresh the page or contact support if the problem persists.",
		Type:        "error",
		Dismissible: true,
	}
}

func detailFor(name string, err error) ErrorDetail {
	d := ErrorDetail{Category: name, Message: MessageFor(name), Severity: "warning"}
	if errors.Is(err, ezraapi.ErrUnauthorized) {
		d.Severity = "error"
	}
	return d
}
