// internal/app/store/players/playerstore.go
package playerstore

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

var ErrDuplicatePlayer = errors.New("this user is already seated at the table")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("players")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Player, error) {
	var p models.Player
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Player{}, err
	}
	return p, nil
}

// Add seats a player at a table. UserID may be nil for guests.
func (s *Store) Add(ctx context.Context, p models.Player) (models.Player, error) {
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.SeatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Player{}, ErrDuplicatePlayer
		}
		return models.Player{}, err
	}
	return p, nil
}

// Remove unseats a player. Returns the number of documents deleted (0 or 1).
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RemoveAllForTable deletes every seat at the table (table delete cleanup).
func (s *Store) RemoveAllForTable(ctx context.Context, tableID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"table_id": tableID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByTable returns the table's players in seating order.
func (s *Store) ListByTable(ctx context.Context, tableID primitive.ObjectID) ([]models.Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seated_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"table_id": tableID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var players []models.Player
	if err := cur.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}
