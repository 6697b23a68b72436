// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/ezraapi"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"golang.org/x/oauth2"
)

// Deps holds the back-end clients shared by every handler. The portal owns
// no database; EZRA is reached over HTTP and identity lives in the cookie.
type Deps struct {
	API      *ezraapi.Client
	Cache    *querycache.Cache
	OAuth    *oauth2.Config
	Verifier *auth.Verifier
}
