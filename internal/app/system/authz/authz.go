// internal/app/system/authz/authz.go
package authz

// Lease actions an admin may take on a lease row.
const (
	ActionView      = "view"
	ActionSend      = "send"
	ActionRenew     = "renew"
	ActionAmend     = "amend"
	ActionTerminate = "terminate"
)

// LeaseActions returns the actions available for a lease in the given
// (derived) status, in display order. View is offered only when the lease
// has an admin document; terminate is always last.
func LeaseActions(status string, hasDocument bool) []string {
	actions := make([]string, 0, 4)
	if hasDocument {
		actions = append(actions, ActionView)
	}
	switch status {
	case "draft":
		actions = append(actions, ActionSend, ActionAmend)
	case "active":
		actions = append(actions, ActionAmend, ActionTerminate)
	case "expires_soon":
		actions = append(actions, ActionRenew, ActionAmend, ActionTerminate)
	case "expired":
		actions = append(actions, ActionRenew)
	case "pending_approval":
		actions = append(actions, ActionTerminate)
	}
	return actions
}

// CanTerminate reports whether a lease in status may be terminated.
func CanTerminate(status string) bool {
	switch status {
	case "active", "pending_approval", "expires_soon":
		return true
	}
	return false
}
