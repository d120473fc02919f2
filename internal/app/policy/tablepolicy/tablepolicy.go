// internal/app/policy/tablepolicy.go
package tablepolicy

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ResolveAction evaluates whether the current request user can perform the
// action on the table. A deny verdict with a nil error means "not
// authorized"; a non-nil error means a database check failed and callers
// must answer with a server fault, not a denial.
func ResolveAction(ctx context.Context, db *mongo.Database, r *http.Request, tableID primitive.ObjectID, action access.Action) (access.Verdict, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return access.Verdict{Reason: access.DenyNoRelation}, nil
	}
	return grouppolicy.Resolver(db).ResolveTableAction(ctx, uid, role, tableID, action)
}
