// internal/app/system/authz/roles.go
package authz

import "strings"

// Role is the closed set of portal roles carried on a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTenant Role = "tenant"
	RoleNone   Role = "none"
)

// Zone prefixes for the protected route subtrees.
const (
	AdminZone  = "/admin"
	TenantZone = "/tenant"
)

// DeriveRole maps a raw role claim to a Role. Only the exact strings
// "admin" and "tenant" are recognized; anything else, including an absent
// (empty) claim, is RoleNone.
func DeriveRole(raw string) Role {
	switch raw {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleTenant):
		return RoleTenant
	default:
		return RoleNone
	}
}

// Valid reports whether r grants access to a protected subtree.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTenant
}

// Zone returns the route prefix owned by r, or "" for RoleNone.
func (r Role) Zone() string {
	switch r {
	case RoleAdmin:
		return AdminZone
	case RoleTenant:
		return TenantZone
	default:
		return ""
	}
}

// InZone reports whether path lies inside the subtree rooted at zone.
// Matching is per path segment: "/tenant" and "/tenant/parking" are inside
// "/tenant", "/tenants" is not.
func InZone(path, zone string) bool {
	if zone == "" {
		return false
	}
	if path == zone {
		return true
	}
	return strings.HasPrefix(path, zone+"/")
}

func (r Role) String() string { return string(r) }
