// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{BaseVM: viewdata.NewBaseVM(r, "Page Title")}
type BaseVM struct {
	Title       string `json:"title"`
	SignedIn    bool   `json:"signed_in"`
	Role        string `json:"role,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	CurrentPath string `json:"current_path"`
	CSRFToken   string `json:"csrf_token,omitempty"`
}

// NewBaseVM fills the common fields from the request's session. The CSRF
// token is only present on routes behind the CSRF middleware.
func NewBaseVM(r *http.Request, title string) BaseVM {
	vm := BaseVM{
		Title:       title,
		CurrentPath: r.URL.Path,
		CSRFToken:   csrf.Token(r),
	}
	if s := auth.CurrentSession(r); s != nil && s.SignedIn {
		vm.SignedIn = true
		vm.Role = s.Role.String()
		vm.UserName = s.Name
	}
	return vm
}

// ErrorVM is the body of every JSON error response.
type ErrorVM struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes an ErrorVM with status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorVM{Error: msg})
}

// WantsHTML is a light heuristic separating browser navigations from API
// callers: HTMX requests and anything accepting text/html.
func WantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	for _, v := range r.Header.Values("Accept") {
		if strings.Contains(v, "text/html") {
			return true
		}
	}
	return false
}
