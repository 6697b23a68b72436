// internal/app/features/errors/render.go
package errors

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/inputval"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /auth/sign-in.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/auth/sign-in"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required"),
		Message: "Please sign in to continue.",
		BackURL: backURL,
	}
	viewdata.JSON(w, http.StatusUnauthorized, data)
}

// RenderForbidden shows a friendly access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied"),
		Message: msg,
		BackURL: backURL,
	}
	viewdata.JSON(w, http.StatusForbidden, data)
}

// RenderFailure maps an operation error to a response:
//   - validation: 422 with the failing fields
//   - unauthorized: 401 with a sign-in redirect
//   - caller gave up or timed out: 504
//   - network / upstream failure: 502
func RenderFailure(w http.ResponseWriter, r *http.Request, logger *zap.Logger, what string, err error) {
	if ve, ok := inputval.AsValidation(err); ok {
		viewdata.JSON(w, http.StatusUnprocessableEntity, viewdata.ErrorVM{
			Error:  "Please correct the highlighted fields.",
			Fields: ve.Fields,
		})
		return
	}

	switch {
	case stderrors.Is(err, ezraapi.ErrUnauthorized):
		viewdata.JSON(w, http.StatusUnauthorized, viewdata.ErrorVM{
			Error:    "Authentication failed",
			Redirect: "/auth/sign-in",
		})
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		viewdata.Error(w, http.StatusGatewayTimeout, "Unable to "+what+" right now. Please try again.")
	case ezraapi.IsNetwork(err):
		logger.Warn("upstream unreachable", zap.String("operation", what), zap.Error(err))
		viewdata.Error(w, http.StatusBadGateway, "Network connection error")
	default:
		logger.Warn("upstream request failed", zap.String("operation", what), zap.Error(err))
		viewdata.Error(w, http.StatusBadGateway, "Unable to "+what+". Please try again later.")
	}
}
