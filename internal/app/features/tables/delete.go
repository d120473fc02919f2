// internal/app/features/tables/delete.go
package tables

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/app/policy/tablepolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete removes a table with its seats and ledger. Delete is
// always creator-gated for editors, even on an active table.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	tid, ok := tableID(r)
	if !ok {
		httpjson.BadRequest(w, "bad table id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, access.ActionDelete)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	txns, err := h.Txns.RemoveAllForTable(ctx, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "remove transactions failed", err)
		return
	}
	players, err := h.Players.RemoveAllForTable(ctx, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "remove players failed", err)
		return
	}

	n, err := h.Tables.Delete(ctx, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "delete table failed", err)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "table not found")
		return
	}

	h.Log.Info("table deleted",
		zap.String("table_id", tid.Hex()),
		zap.Int64("players_removed", players),
		zap.Int64("transactions_removed", txns))
	httpjson.Write(w, http.StatusOK, map[string]any{"deleted": true})
}
