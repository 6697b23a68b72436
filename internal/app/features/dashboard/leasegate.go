// internal/app/features/dashboard/leasegate.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/dalemusser/ezraportal/internal/domain/models"
	"go.uber.org/zap"
)

// SignPath is the gate's only action.
const SignPath = "/tenant/lease/sign"

// GateAction is the single thing a tenant can do from the gate.
type GateAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// SigningGate is the blocking lease-signing prompt. It has no cancel
// action and none of the dismissal affordances are enabled.
type SigningGate struct {
	Required     bool       `json:"required"`
	Dismissible  bool       `json:"dismissible"`
	Closable     bool       `json:"closable"`
	MaskClosable bool       `json:"mask_closable"`
	Keyboard     bool       `json:"keyboard"`
	Title        string     `json:"title"`
	Heading      string     `json:"heading"`
	Status       string     `json:"status"`
	StatusLabel  string     `json:"status_label"`
	Body         []string   `json:"body"`
	Action       GateAction `json:"action"`
}

// RequiresSigning reports whether a lease status blocks the portal.
func RequiresSigning(status string) bool {
	switch status {
	case models.LeasePendingApproval, models.LeaseTerminated, models.LeaseExpired:
		return true
	default:
		return false
	}
}

// StatusLabel is the status as shown in the gate.
func StatusLabel(status string) string {
	if status == models.LeasePendingApproval {
		return "Pending Approval"
	}
	return status
}

// GateFor returns the gate for ls, or nil when none is required.
func GateFor(ls models.LeaseSigning) *SigningGate {
	if !RequiresSigning(ls.Status) {
		return nil
	}
	return &SigningGate{
		Required:    true,
		Title:       "Action Required: Lease Signing",
		Heading:     "Your Lease Requires Attention",
		Status:      ls.Status,
		StatusLabel: StatusLabel(ls.Status),
		Body: []string{
			"You must sign your lease to continue using the tenant portal.",
			"This action is required and cannot be dismissed.",
		},
		Action: GateAction{Label: "Sign Lease Now", Href: SignPath},
	}
}

// gateExempt are the tenant routes reachable while the gate is up.
var gateExempt = map[string]bool{
	"/tenant":               true,
	"/tenant/":              true,
	"/tenant/api/dashboard": true,
	SignPath:                true,
}

type gateResponse struct {
	Error       string       `json:"error"`
	SigningGate *SigningGate `json:"signing_gate"`
}

// GateMiddleware refuses tenant routes other than the dashboard and the
// signing action while the tenant's lease needs signing. A lease status
// that cannot be loaded does not block.
func GateMiddleware(a *Aggregator, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := auth.CurrentSession(r)
			if gateExempt[r.URL.Path] || sess == nil || sess.UserID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ls, err := a.LeaseStatus(r.Context(), sess)
			if err != nil {
				logger.Debug("lease gate skipped; status unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			gate := GateFor(ls)
			if gate == nil {
				next.ServeHTTP(w, r)
				return
			}

			if viewdata.WantsHTML(r) {
				http.Redirect(w, r, "/tenant", http.StatusSeeOther)
				return
			}
			viewdata.JSON(w, http.StatusLocked, gateResponse{
				Error:       "lease signing required",
				SigningGate: gate,
			})
		})
	}
}
