// internal/app/features/tables/list.go
package tables

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleList returns tables. With ?group_id= it lists the group's tables
// (viewer access required); without it, the caller's own ungrouped tables.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if gidHex := query.Get(r, "group_id"); gidHex != "" {
		gid, err := primitive.ObjectIDFromHex(gidHex)
		if err != nil {
			httpjson.BadRequest(w, "bad group_id")
			return
		}

		v, err := grouppolicy.Resolve(ctx, h.DB, r, gid, models.GroupRoleViewer)
		if err != nil {
			httpjson.Internal(w, h.Log, "resolve group access failed", err)
			return
		}
		if !v.Allowed {
			httpjson.Denied(w, v)
			return
		}

		list, err := h.Tables.ListByGroup(ctx, gid)
		if err != nil {
			httpjson.Internal(w, h.Log, "list group tables failed", err)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]any{"tables": list})
		return
	}

	list, err := h.Tables.ListUngroupedByCreator(ctx, uid)
	if err != nil {
		httpjson.Internal(w, h.Log, "list ungrouped tables failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"tables": list})
}
