// internal/app/store/tables/tablestore.go
package tablestore

import (
	"context"
	"strings"
	"time"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tables")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Table, error) {
	var t models.Table
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Table{}, err
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t models.Table) (models.Table, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	if t.Status == "" {
		t.Status = models.TableStatusActive
	}
	if t.StartedAt.IsZero() {
		t.StartedAt = now
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Table{}, err
	}
	return t, nil
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, stakes string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	// Stakes can be cleared (set to empty)
	set["stakes"] = stakes
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetStatus flips the table between active and finished. Finishing stamps
// EndedAt; reopening clears it.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	unset := bson.M{}
	if status == models.TableStatusFinished {
		set["ended_at"] = now
	} else {
		unset["ended_at"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// Delete removes a table by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByGroup returns the group's tables, most recently started first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Table, error) {
	return s.list(ctx, bson.M{"group_id": groupID})
}

// ListUngroupedByCreator returns the caller's personal tables (no group).
func (s *Store) ListUngroupedByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Table, error) {
	return s.list(ctx, bson.M{
		"creator_id": creatorID,
		"group_id":   bson.M{"$exists": false},
	})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tables []models.Table
	if err := cur.All(ctx, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// TableInfo implements access.TableLookup with a projected point read.
func (s *Store) TableInfo(ctx context.Context, tableID primitive.ObjectID) (access.TableInfo, error) {
	var row struct {
		ID        primitive.ObjectID  `bson:"_id"`
		CreatorID primitive.ObjectID  `bson:"creator_id"`
		GroupID   *primitive.ObjectID `bson:"group_id"`
		Status    string              `bson:"status"`
	}
	proj := options.FindOne().SetProjection(bson.M{"_id": 1, "creator_id": 1, "group_id": 1, "status": 1})
	err := s.c.FindOne(ctx, bson.M{"_id": tableID}, proj).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return access.TableInfo{}, access.ErrNotFound
	}
	if err != nil {
		return access.TableInfo{}, err
	}
	return access.TableInfo{
		ID:        row.ID,
		CreatorID: row.CreatorID,
		GroupID:   row.GroupID,
		Active:    row.Status == models.TableStatusActive,
	}, nil
}
