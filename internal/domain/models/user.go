// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User statuses.
const (
	UserStatusPending = "pending" // registered, email not yet verified
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked" // denied all authenticated operations
)

// User represents every account: admins, editors, and plain users.
//
// NOTE:
//   - Group relations are not embedded on User.
//     Use the group_memberships collection (and Group.OwnerID) instead.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // "password" | "google"
	Role         GlobalRole         `bson:"role" json:"role"`
	Status       string             `bson:"status" json:"status"` // pending | active | blocked

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Blocked reports whether the account is blocked. A blocked user is denied
// every authenticated operation regardless of role.
func (u User) Blocked() bool {
	return u.Status == UserStatusBlocked
}
