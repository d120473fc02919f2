// internal/domain/models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction kinds.
const (
	TransactionBuyIn   = "buyin"
	TransactionCashOut = "cashout"
)

// Transaction records money moving at a table: a player's buy-in or
// cash-out. Amounts are stored in cents to avoid float drift in sums.
type Transaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TableID     primitive.ObjectID `bson:"table_id" json:"table_id"`
	PlayerID    primitive.ObjectID `bson:"player_id" json:"player_id"`
	Kind        string             `bson:"kind" json:"kind"` // buyin | cashout
	AmountCents int64              `bson:"amount_cents" json:"amount_cents"`
	Note        string             `bson:"note,omitempty" json:"note,omitempty"`
	RecordedBy  primitive.ObjectID `bson:"recorded_by" json:"recorded_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
