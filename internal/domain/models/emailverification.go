// internal/domain/models/emailverification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailVerification is a one-shot token mailed at registration. Consuming
// it activates the account and promotes the role from "user" to "editor".
type EmailVerification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Token     string             `bson:"token" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Expired reports whether the token is past its expiry at the given time.
func (v EmailVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
