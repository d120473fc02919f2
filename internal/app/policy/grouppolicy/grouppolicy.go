// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	groupstore "github.com/cardroomhq/stakehub/internal/app/store/groups"
	membershipstore "github.com/cardroomhq/stakehub/internal/app/store/memberships"
	tablestore "github.com/cardroomhq/stakehub/internal/app/store/tables"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resolve evaluates whether the current request user can act on the group
// at the required role level. A deny verdict with a nil error means "not
// authorized"; a non-nil error means a database check failed and callers
// must answer with a server fault, not a denial.
func Resolve(ctx context.Context, db *mongo.Database, r *http.Request, groupID primitive.ObjectID, required models.GroupRole) (access.Verdict, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return access.Verdict{Reason: access.DenyNoRelation}, nil
	}
	return Resolver(db).ResolveGroupAccess(ctx, uid, role, groupID, required)
}

// Resolver builds the access resolver over the Mongo-backed stores.
func Resolver(db *mongo.Database) *access.Resolver {
	return access.NewResolver(
		groupstore.New(db),
		membershipstore.New(db),
		tablestore.New(db),
	)
}
