// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("an account with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks a user up by folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a new user. New accounts start as role "user" with status
// "pending" unless the caller set something else (e.g. Google sign-ins go
// straight to active).
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName)
	u.EmailCI = text.Fold(u.Email)
	if u.Role == "" {
		u.Role = models.GlobalRoleUser
	}
	if u.Status == "" {
		u.Status = models.UserStatusPending
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Activate marks a pending account active and promotes its role to editor.
// Verified accounts get editing rights; see the registration flow.
func (s *Store) Activate(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     models.UserStatusActive,
		"role":       models.GlobalRoleEditor,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetRole changes the global role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role models.GlobalRole) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetBlocked toggles the blocked status. Unblocking restores "active".
func (s *Store) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	status := models.UserStatusActive
	if blocked {
		status = models.UserStatusBlocked
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns users sorted by folded name, optionally prefix-filtered.
func (s *Store) List(ctx context.Context, search string, limit int64) ([]models.User, error) {
	filter := bson.M{}
	if search != "" {
		q := text.Fold(search)
		filter["full_name_ci"] = bson.M{"$gte": q, "$lt": q + "\uffff"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
