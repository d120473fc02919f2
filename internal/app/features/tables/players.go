// internal/app/features/tables/players.go
package tables

import (
	"context"
	"encoding/json"
	"net/http"

	playerstore "github.com/cardroomhq/stakehub/internal/app/store/players"
	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/app/policy/tablepolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/sanitize"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addPlayerRequest struct {
	UserID string `json:"user_id"` // empty for walk-in guests
	Name   string `json:"name"`
}

// HandleAddPlayer seats a player. Guests have no user_id but always a
// name.
func (h *Handler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	tid, ok := tableID(r)
	if !ok {
		httpjson.BadRequest(w, "bad table id")
		return
	}

	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	if req.Name == "" {
		httpjson.BadRequest(w, "name is required")
		return
	}

	var userID *primitive.ObjectID
	if req.UserID != "" {
		uid, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			httpjson.BadRequest(w, "bad user id")
			return
		}
		userID = &uid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, access.ActionAddPlayer)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	player, err := h.Players.Add(ctx, models.Player{
		TableID: tid,
		UserID:  userID,
		Name:    req.Name,
	})
	if err == playerstore.ErrDuplicatePlayer {
		httpjson.Conflict(w, err.Error())
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "add player failed", err)
		return
	}
	httpjson.Write(w, http.StatusCreated, player)
}

// HandleRemovePlayer unseats a player and drops their ledger rows for
// this table.
func (h *Handler) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	tid, ok := tableID(r)
	if !ok {
		httpjson.BadRequest(w, "bad table id")
		return
	}
	pid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "playerID"))
	if err != nil {
		httpjson.BadRequest(w, "bad player id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, access.ActionRemovePlayer)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	// The seat must belong to this table; URLs for other tables' seats
	// must not work.
	player, err := h.Players.GetByID(ctx, pid)
	if err != nil || player.TableID != tid {
		httpjson.NotFound(w, "player not found at this table")
		return
	}

	if err := h.Txns.RemoveAllForPlayer(ctx, pid); err != nil {
		httpjson.Internal(w, h.Log, "remove player transactions failed", err)
		return
	}
	if _, err := h.Players.Remove(ctx, pid); err != nil {
		httpjson.Internal(w, h.Log, "remove player failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"removed": true})
}
