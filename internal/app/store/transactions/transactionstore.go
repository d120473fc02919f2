// internal/app/store/transactions/transactionstore.go
package transactionstore

import (
	"context"
	"errors"
	"time"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	errBadKind   = errors.New(`kind must be "buyin" or "cashout"`)
	errBadAmount = errors.New("amount must be positive")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("transactions")}
}

// Record inserts a buy-in or cash-out row after validating kind and amount.
func (s *Store) Record(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.Kind != models.TransactionBuyIn && tx.Kind != models.TransactionCashOut {
		return models.Transaction{}, errBadKind
	}
	if tx.AmountCents <= 0 {
		return models.Transaction{}, errBadAmount
	}
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// ListByTable returns the table's ledger in chronological order.
func (s *Store) ListByTable(ctx context.Context, tableID primitive.ObjectID) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"table_id": tableID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Transaction
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// RemoveAllForPlayer deletes one seat's ledger rows (player removal
// cleanup).
func (s *Store) RemoveAllForPlayer(ctx context.Context, playerID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"player_id": playerID})
	return err
}

// RemoveAllForTable deletes the table's ledger (table delete cleanup).
func (s *Store) RemoveAllForTable(ctx context.Context, tableID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"table_id": tableID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
