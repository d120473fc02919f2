// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds.
const (
	NotifyMemberAdded       = "member_added"
	NotifyMemberRemoved     = "member_removed"
	NotifyRoleChanged       = "role_changed"
	NotifyOwnershipReceived = "ownership_received"
)

// Notification is an in-app message for a single user.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Kind    string             `bson:"kind" json:"kind"`
	Message string             `bson:"message" json:"message"`
	Read    bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
