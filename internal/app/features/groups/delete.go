// internal/app/features/groups/delete.go
package groups

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleDelete removes a group and its memberships. Owner or admin only.
// Tables that pointed at the group keep their group_id; the resolver
// answers no-group-access for them until an admin cleans up or deletes
// them.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	gid, ok := groupID(r)
	if !ok {
		httpjson.BadRequest(w, "bad group id")
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

	removed, err := h.Members.RemoveAllForGroup(ctx, gid)
	if err != nil {
		httpjson.Internal(w, h.Log, "remove memberships failed", err)
		return
	}

	n, err := h.Groups.Delete(ctx, gid)
	if err != nil {
		httpjson.Internal(w, h.Log, "delete group failed", err)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "group not found")
		return
	}

	h.Log.Info("group deleted",
		zap.String("group_id", gid.Hex()),
		zap.Int64("memberships_removed", removed))
	httpjson.Write(w, http.StatusOK, map[string]any{"deleted": true})
}
