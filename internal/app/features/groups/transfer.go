// internal/app/features/groups/transfer.go
package groups

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type transferRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}

// HandleTransfer moves group ownership. Owner or admin only. The new
// owner's membership row (if any) is removed so ownership and membership
// stay mutually exclusive; the old owner is written back as an editor
// member so they keep access.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	gid, ok := groupID(r)
	if !ok {
		httpjson.BadRequest(w, "bad group id")
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	newOwner, err := primitive.ObjectIDFromHex(req.NewOwnerID)
	if err != nil {
		httpjson.BadRequest(w, "bad new_owner_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	v, err := grouppolicy.Resolve(ctx, h.DB, r, gid, models.GroupRoleOwner)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve group access failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	group, err := h.Groups.GetByID(ctx, gid)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "group not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "load group failed", err)
		return
	}
	if group.OwnerID == newOwner {
		httpjson.BadRequest(w, "user already owns this group")
		return
	}

	if _, err := h.Users.GetByID(ctx, newOwner); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "user not found")
			return
		}
		httpjson.Internal(w, h.Log, "load user failed", err)
		return
	}

	// Ownership and membership are mutually exclusive.
	if err := h.Members.Remove(ctx, gid, newOwner); err != nil && err != mongo.ErrNoDocuments {
		httpjson.Internal(w, h.Log, "clear new owner membership failed", err)
		return
	}

	if err := h.Groups.TransferOwnership(ctx, gid, newOwner); err != nil {
		httpjson.Internal(w, h.Log, "transfer ownership failed", err)
		return
	}

	// The old owner stays on as an editor.
	if err := h.Members.Add(ctx, gid, group.OwnerID, models.GroupRoleEditor); err != nil {
		h.Log.Warn("could not retain old owner as editor", zap.Error(err))
	}

	h.notify(ctx, newOwner, models.NotifyOwnershipReceived,
		fmt.Sprintf("You are now the owner of %q.", group.Name))

	httpjson.Write(w, http.StatusOK, map[string]any{
		"group_id": gid.Hex(),
		"owner_id": newOwner.Hex(),
	})
}
