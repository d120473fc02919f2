// internal/domain/models/table.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Table statuses. A finished table is a settled ledger: only its creator
// (or the group owner / an admin) may edit it, delete it, or flip its
// status again.
const (
	TableStatusActive   = "active"
	TableStatusFinished = "finished"
)

// Table is a single game session. GroupID is nil for tables that exist
// outside any group (personal sessions of the creator).
type Table struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Name      string              `bson:"name" json:"name"`
	NameCI    string              `bson:"name_ci" json:"-"`
	Stakes    string              `bson:"stakes,omitempty" json:"stakes,omitempty"` // e.g. "0.25/0.50"
	CreatorID primitive.ObjectID  `bson:"creator_id" json:"creator_id"`
	GroupID   *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`

	Status string `bson:"status" json:"status"`

	StartedAt time.Time  `bson:"started_at" json:"started_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// Active reports whether the table is still in progress.
func (t Table) Active() bool { return t.Status == TableStatusActive }
