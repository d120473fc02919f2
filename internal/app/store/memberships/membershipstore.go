// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c      *mongo.Collection
	groups *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("group_memberships"),
		groups: db.Collection("groups"),
	}
}

var (
	errBadRole             = errors.New(`role must be "editor" or "viewer"`)
	ErrOwnerIsMember       = errors.New("the group owner cannot also be a member")
	ErrDuplicateMembership = errors.New("user is already a member of this group")
)

// Add creates a membership after enforcing role validity and the
// owner/membership exclusivity invariant.
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID, role models.GroupRole) error {
	if !role.ValidMembership() {
		return errBadRole
	}

	var g models.Group
	if err := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Decode(&g); err != nil {
		return err
	}
	if g.OwnerID == userID {
		return ErrOwnerIsMember
	}

	doc := bson.M{
		"group_id":   groupID,
		"user_id":    userID,
		"role":       role,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// UpdateRole changes the stored role for (groupID, userID).
func (s *Store) UpdateRole(ctx context.Context, groupID, userID primitive.ObjectID, role models.GroupRole) error {
	if !role.ValidMembership() {
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "user_id": userID},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Remove deletes the membership document for (groupID, userID). Returns
// mongo.ErrNoDocuments when there was nothing to remove.
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveAllForGroup deletes every membership of the group (group delete
// cleanup). Returns the number of documents deleted.
func (s *Store) RemoveAllForGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListForGroup returns the group's membership rows sorted by creation.
func (s *Store) ListForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMembership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.GroupMembership
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GroupIDsForUser returns the IDs of every group the user is a member of.
func (s *Store) GroupIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"group_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			GroupID primitive.ObjectID `bson:"group_id"`
		}
		if cur.Decode(&row) == nil {
			ids = append(ids, row.GroupID)
		}
	}
	return ids, cur.Err()
}

// MembershipRole implements access.MembershipLookup. Absence of a row is
// reported via found=false, not as an error.
func (s *Store) MembershipRole(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupRole, bool, error) {
	var row struct {
		Role models.GroupRole `bson:"role"`
	}
	proj := options.FindOne().SetProjection(bson.M{"role": 1})
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}, proj).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Role, true, nil
}
