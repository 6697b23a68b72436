// internal/app/system/ezraapi/admin.go
package ezraapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/ezraportal/internal/domain/models"
	"golang.org/x/oauth2"
)

// AdminLeases lists every lease in the complex.
func (c *Client) AdminLeases(ctx context.Context, ts oauth2.TokenSource) ([]models.Lease, error) {
	var out []models.Lease
	err := c.do(ctx, ts, call{resource: ResourceLeases, method: http.MethodGet, path: "/admin/leases/", out: &out})
	return out, err
}

// TerminateLease terminates lease id on behalf of admin updatedBy.
func (c *Client) TerminateLease(ctx context.Context, ts oauth2.TokenSource, id, updatedBy int64) error {
	return c.do(ctx, ts, call{
		resource: ResourceLeases,
		method:   http.MethodPost,
		path:     "/admin/leases/terminate/" + strconv.FormatInt(id, 10),
		body:     models.TerminateLease{ID: id, UpdatedBy: updatedBy},
	})
}
