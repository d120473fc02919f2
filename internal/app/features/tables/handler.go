// internal/app/features/tables/handler.go
package tables

import (
	"net/http"

	playerstore "github.com/cardroomhq/stakehub/internal/app/store/players"
	tablestore "github.com/cardroomhq/stakehub/internal/app/store/tables"
	transactionstore "github.com/cardroomhq/stakehub/internal/app/store/transactions"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the tables feature.
// Every mutating operation funnels through tablepolicy.ResolveAction; the
// handlers never re-derive permissions themselves.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Tables  *tablestore.Store
	Players *playerstore.Store
	Txns    *transactionstore.Store
}

// NewHandler constructs a tables Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Tables:  tablestore.New(db),
		Players: playerstore.New(db),
		Txns:    transactionstore.New(db),
	}
}

// tableID extracts and validates the {id} URL parameter.
func tableID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}
