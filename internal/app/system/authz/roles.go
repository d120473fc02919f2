// internal/app/system/authz/roles.go
package authz

import (
	"net/http"

	"github.com/cardroomhq/stakehub/internal/domain/models"
)

// HasAnyRole reports whether the current request's user has any of the
// given global roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...models.GlobalRole) bool {
	cur, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if cur == want {
			return true
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role models.GlobalRole) bool {
	return HasAnyRole(r, role)
}

// Role returns the current user's global role and whether a user is present.
func Role(r *http.Request) (models.GlobalRole, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}
