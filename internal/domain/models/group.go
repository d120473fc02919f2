// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group statuses. An inactive group cannot be joined but remains viewable
// to everyone who already has a relation to it.
const (
	GroupStatusActive   = "active"
	GroupStatusInactive = "inactive"
)

// Group is a poker home-game circle that owns tables and memberships.
//
// NOTE:
//   - Member lists are not embedded on Group.
//     All membership is stored in the group_memberships collection.
//   - OwnerID is the single always-privileged user for the group.
//     Ownership is transferable but never null, and the owner never
//     also has a membership row.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Active reports whether the group is joinable.
func (g Group) Active() bool { return g.Status == GroupStatusActive }
