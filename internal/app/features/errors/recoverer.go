// internal/app/features/errors/recoverer.go
package errors

import (
	"net/http"
	"runtime/debug"

	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Boundary recovers a panic anywhere below it, logs it, and replaces the
// response with a generic failure view offering retry and home.
func Boundary(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.ByteString("stack", debug.Stack()))

				data := pageData{
					BaseVM:  viewdata.NewBaseVM(r, "Something went wrong"),
					Message: "An unexpected error occurred.",
					BackURL: "/",
					Actions: []action{
						{Label: "Try again", Href: r.URL.RequestURI()},
						{Label: "Go home", Href: "/"},
					},
				}
				viewdata.JSON(w, http.StatusInternalServerError, data)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
