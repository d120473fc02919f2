// internal/app/features/groups/handler.go
package groups

import (
	"context"

	groupstore "github.com/cardroomhq/stakehub/internal/app/store/groups"
	membershipstore "github.com/cardroomhq/stakehub/internal/app/store/memberships"
	notificationstore "github.com/cardroomhq/stakehub/internal/app/store/notifications"
	userstore "github.com/cardroomhq/stakehub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Groups  *groupstore.Store
	Members *membershipstore.Store
	Users   *userstore.Store
	Notify  *notificationstore.Store
}

// NewHandler constructs a groups Handler. It is called from the bootstrap
// BuildHandler function, where the DB and logger are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Groups:  groupstore.New(db),
		Members: membershipstore.New(db),
		Users:   userstore.New(db),
		Notify:  notificationstore.New(db),
	}
}

// notify inserts a notification, logging instead of failing the request
// when the insert goes wrong. A missed notification never fails the
// operation that triggered it.
func (h *Handler) notify(ctx context.Context, userID primitive.ObjectID, kind, message string) {
	if err := h.Notify.Add(ctx, userID, kind, message); err != nil {
		h.Log.Warn("notification insert failed",
			zap.String("kind", kind),
			zap.Error(err))
	}
}
