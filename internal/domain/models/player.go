// internal/domain/models/player.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Player is a seat at a table. UserID is nil for walk-in guests who have
// no account; Name is always set so the ledger stays readable either way.
type Player struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TableID primitive.ObjectID  `bson:"table_id" json:"table_id"`
	UserID  *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name    string              `bson:"name" json:"name"`
	NameCI  string              `bson:"name_ci" json:"-"`

	SeatedAt time.Time `bson:"seated_at" json:"seated_at"`
}
