// internal/app/features/tables/transactions.go
package tables

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/app/policy/tablepolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/sanitize"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordRequest struct {
	PlayerID    string `json:"player_id"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note"`
}

// HandleBuyIn records a buy-in for a seated player.
func (h *Handler) HandleBuyIn(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, models.TransactionBuyIn, access.ActionRecordBuyIn)
}

// HandleCashOut records a cash-out for a seated player.
func (h *Handler) HandleCashOut(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, models.TransactionCashOut, access.ActionRecordCashOut)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request, kind string, action access.Action) {
	tid, ok := tableID(r)
	if !ok {
		httpjson.BadRequest(w, "bad table id")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	pid, err := primitive.ObjectIDFromHex(req.PlayerID)
	if err != nil {
		httpjson.BadRequest(w, "bad player id")
		return
	}
	if req.AmountCents <= 0 {
		httpjson.BadRequest(w, "amount_cents must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, action)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	// Ledger rows only ever reference seats at their own table.
	player, err := h.Players.GetByID(ctx, pid)
	if err != nil || player.TableID != tid {
		httpjson.NotFound(w, "player not found at this table")
		return
	}

	_, _, uid, _ := authz.UserCtx(r)
	tx, err := h.Txns.Record(ctx, models.Transaction{
		TableID:     tid,
		PlayerID:    pid,
		Kind:        kind,
		AmountCents: req.AmountCents,
		Note:        sanitize.Text(req.Note),
		RecordedBy:  uid,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, "record transaction failed", err)
		return
	}
	httpjson.Write(w, http.StatusCreated, tx)
}
