// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
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

var ErrDuplicateGroupName = errors.New("a group with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if g.Status == "" {
		g.Status = models.GroupStatusActive
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc, status string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	// Description can be cleared (set to empty)
	set["description"] = desc
	if status == models.GroupStatusActive || status == models.GroupStatusInactive {
		set["status"] = status
	}
	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	return nil
}

// TransferOwnership moves the group to a new owner. Callers must first
// remove any membership row the new owner holds, so ownership and
// membership stay mutually exclusive.
func (s *Store) TransferOwnership(ctx context.Context, id, newOwnerID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"owner_id":   newOwnerID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByIDs fetches the groups with the given IDs plus every group owned
// by ownerID, sorted by folded name. Used to build a user's group list
// (owned + member-of).
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID, ownerID primitive.ObjectID) ([]models.Group, error) {
	filter := bson.M{"$or": []bson.M{
		{"_id": bson.M{"$in": ids}},
		{"owner_id": ownerID},
	}}
	return s.list(ctx, filter)
}

// ListAll returns every group, admin use only.
func (s *Store) ListAll(ctx context.Context) ([]models.Group, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GroupInfo implements access.GroupLookup with a projected point read.
func (s *Store) GroupInfo(ctx context.Context, groupID primitive.ObjectID) (access.GroupInfo, error) {
	var row struct {
		ID      primitive.ObjectID `bson:"_id"`
		OwnerID primitive.ObjectID `bson:"owner_id"`
		Status  string             `bson:"status"`
	}
	proj := options.FindOne().SetProjection(bson.M{"_id": 1, "owner_id": 1, "status": 1})
	err := s.c.FindOne(ctx, bson.M{"_id": groupID}, proj).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return access.GroupInfo{}, access.ErrNotFound
	}
	if err != nil {
		return access.GroupInfo{}, err
	}
	return access.GroupInfo{
		ID:      row.ID,
		OwnerID: row.OwnerID,
		Active:  row.Status == models.GroupStatusActive,
	}, nil
}
