// internal/app/store/emailverify/store.go
package emailverify

import (
	"context"
	"errors"
	"time"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultExpiry is how long a verification token stays valid.
const DefaultExpiry = 24 * time.Hour

var (
	// ErrNotFound is returned when no verification matches the token.
	ErrNotFound = errors.New("verification not found")
	// ErrExpired is returned when the token exists but is past expiry.
	ErrExpired = errors.New("verification token expired")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("email_verifications")}
}

// Create issues a fresh verification token for the user, replacing any
// outstanding one so only the latest mailed link works.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, expiry time.Duration) (models.EmailVerification, error) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return models.EmailVerification{}, err
	}

	now := time.Now().UTC()
	v := models.EmailVerification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(expiry),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.EmailVerification{}, err
	}
	return v, nil
}

// Consume looks up and deletes the verification for the token, returning
// the user it belongs to. A token can be consumed exactly once.
func (s *Store) Consume(ctx context.Context, token string) (primitive.ObjectID, error) {
	var v models.EmailVerification
	err := s.c.FindOneAndDelete(ctx, bson.M{"token": token}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, ErrNotFound
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	if v.Expired(time.Now().UTC()) {
		return primitive.NilObjectID, ErrExpired
	}
	return v.UserID, nil
}
