// internal/app/features/tables/view.go
package tables

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/app/policy/tablepolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleView returns the table with its seats and ledger.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	tid, ok := tableID(r)
	if !ok {
		httpjson.BadRequest(w, "bad table id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, access.ActionView)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	table, err := h.Tables.GetByID(ctx, tid)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "table not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "load table failed", err)
		return
	}

	players, err := h.Players.ListByTable(ctx, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "list players failed", err)
		return
	}
	txns, err := h.Txns.ListByTable(ctx, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "list transactions failed", err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"table":          table,
		"players":        players,
		"transactions":   txns,
		"effective_role": v.EffectiveRole,
	})
}
