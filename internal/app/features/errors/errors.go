// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string   `json:"message"`
	BackURL string   `json:"back_url"`
	Actions []action `json:"actions,omitempty"`
}

type action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Handler is the errors feature handler. It has no dependencies.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "/")
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "")
}

// ServerError is the landing for signed-in users without a usable role.
// GET /error500
func (h *Handler) ServerError(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong"),
		Message: "Your account is not set up for the portal. Please contact the leasing office.",
		BackURL: "/",
		Actions: []action{{Label: "Sign out", Href: "/auth/sign-out"}},
	}
	viewdata.JSON(w, http.StatusInternalServerError, data)
}

// NotFound renders the not-found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found"),
		Message: "The page you are looking for does not exist.",
		BackURL: "/",
	}
	viewdata.JSON(w, http.StatusNotFound, data)
}
