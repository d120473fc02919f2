// Package tablestats provides read-only aggregation queries over the
// transactions ledger: per-table player results and per-group leaderboards.
package tablestats

import (
	"context"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PlayerResult is one player's totals at a single table.
type PlayerResult struct {
	PlayerID     primitive.ObjectID  `bson:"_id" json:"player_id"`
	PlayerName   string              `bson:"player_name" json:"player_name"`
	UserID       *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	BuyInCents   int64               `bson:"buyin_cents" json:"buyin_cents"`
	CashOutCents int64               `bson:"cashout_cents" json:"cashout_cents"`
	NetCents     int64               `bson:"net_cents" json:"net_cents"`
}

// TableResults computes each player's buy-in total, cash-out total, and net
// for one table, best net first.
func TableResults(ctx context.Context, db *mongo.Database, tableID primitive.ObjectID) ([]PlayerResult, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"table_id": tableID}}},
		// Sum buy-ins and cash-outs per player in one pass.
		bson.D{{Key: "$group", Value: bson.M{
			"_id": "$player_id",
			"buyin_cents": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$kind", models.TransactionBuyIn}}, "$amount_cents", 0,
			}}},
			"cashout_cents": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$kind", models.TransactionCashOut}}, "$amount_cents", 0,
			}}},
		}}},
		// Join to players for the display name.
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "players",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "p",
		}}},
		bson.D{{Key: "$unwind", Value: "$p"}},
		bson.D{{Key: "$project", Value: bson.M{
			"player_name":   "$p.name",
			"user_id":       "$p.user_id",
			"buyin_cents":   1,
			"cashout_cents": 1,
			"net_cents":     bson.M{"$subtract": bson.A{"$cashout_cents", "$buyin_cents"}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"net_cents": -1}}},
	}

	cur, err := db.Collection("transactions").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []PlayerResult
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// LeaderboardEntry is one user's running totals across a group's tables.
type LeaderboardEntry struct {
	UserID       primitive.ObjectID `bson:"_id" json:"user_id"`
	Tables       int64              `bson:"tables" json:"tables"`
	BuyInCents   int64              `bson:"buyin_cents" json:"buyin_cents"`
	CashOutCents int64              `bson:"cashout_cents" json:"cashout_cents"`
	NetCents     int64              `bson:"net_cents" json:"net_cents"`
}

// GroupLeaderboard aggregates every finished table of the group into
// per-user totals, best net first. Guest players (no user account) are
// excluded: there is nobody to attribute the result to.
func GroupLeaderboard(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID) ([]LeaderboardEntry, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"group_id": groupID,
			"status":   models.TableStatusFinished,
		}}},
		// Fan out to each table's seats.
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "players",
			"localField":   "_id",
			"foreignField": "table_id",
			"as":           "player",
		}}},
		bson.D{{Key: "$unwind", Value: "$player"}},
		bson.D{{Key: "$match", Value: bson.M{"player.user_id": bson.M{"$ne": nil}}}},
		// Pull each seat's ledger rows.
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "transactions",
			"localField":   "player._id",
			"foreignField": "player_id",
			"as":           "tx",
		}}},
		bson.D{{Key: "$unwind", Value: "$tx"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    "$player.user_id",
			"tables": bson.M{"$addToSet": "$_id"},
			"buyin_cents": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$tx.kind", models.TransactionBuyIn}}, "$tx.amount_cents", 0,
			}}},
			"cashout_cents": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$tx.kind", models.TransactionCashOut}}, "$tx.amount_cents", 0,
			}}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"tables":        bson.M{"$size": "$tables"},
			"buyin_cents":   1,
			"cashout_cents": 1,
			"net_cents":     bson.M{"$subtract": bson.A{"$cashout_cents", "$buyin_cents"}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"net_cents": -1}}},
	}

	cur, err := db.Collection("tables").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []LeaderboardEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
