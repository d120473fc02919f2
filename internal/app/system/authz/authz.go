// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's global role, name, Mongo ObjectID, and a found
// flag. If no user is present in context or the user ID is malformed, it
// returns GlobalRoleUser, "", NilObjectID, false. This ensures callers can
// trust that ok=true means a valid, authenticated user with a valid
// ObjectID. Unknown role strings also fail closed to GlobalRoleUser.
func UserCtx(r *http.Request) (role models.GlobalRole, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return models.GlobalRoleUser, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session; indicates session corruption.
		return models.GlobalRoleUser, "", primitive.NilObjectID, false
	}
	return models.ParseGlobalRole(strings.ToLower(user.Role)), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is a site admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.GlobalRoleAdmin
}

// IsEditor reports whether the current request's user holds the global
// editor role. Admins are not editors; admin checks bypass editor gates
// elsewhere.
func IsEditor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.GlobalRoleEditor
}
