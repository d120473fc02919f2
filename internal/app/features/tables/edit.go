// internal/app/features/tables/edit.go
package tables

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/app/policy/tablepolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/sanitize"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type editTableRequest struct {
	Name   string `json:"name"`
	Stakes string `json:"stakes"`
}

// HandleEdit renames a table or changes its stakes. On a finished table
// only the creator (or group owner / admin) passes the resolver.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	tid, ok := tableID(r)
	if !ok {
		httpjson.BadRequest(w, "bad table id")
		return
	}

	var req editTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	req.Stakes = sanitize.Text(req.Stakes)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, access.ActionEdit)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	if err := h.Tables.UpdateInfo(ctx, tid, req.Name, req.Stakes); err != nil {
		httpjson.Internal(w, h.Log, "update table failed", err)
		return
	}

	table, err := h.Tables.GetByID(ctx, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "reload table failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, table)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleStatus flips a table between active and finished. Finishing
// stamps ended_at; reopening clears it. Reopening a finished table is
// creator-gated the same way as editing it.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	tid, ok := tableID(r)
	if !ok {
		httpjson.BadRequest(w, "bad table id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Status != models.TableStatusActive && req.Status != models.TableStatusFinished {
		httpjson.BadRequest(w, "status must be active or finished")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, access.ActionChangeStatus)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	// Re-read inside the same request before mutating; the verdict could
	// have been computed against a state another request just changed.
	table, err := h.Tables.GetByID(ctx, tid)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "table not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "reload table failed", err)
		return
	}
	if table.Status == req.Status {
		httpjson.Write(w, http.StatusOK, table)
		return
	}

	if err := h.Tables.SetStatus(ctx, tid, req.Status); err != nil {
		httpjson.Internal(w, h.Log, "set table status failed", err)
		return
	}

	table, err = h.Tables.GetByID(ctx, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "reload table failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, table)
}
