// internal/app/features/groups/view.go
package groups

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// groupID extracts and validates the {id} URL parameter.
func groupID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// HandleView returns the group with its member list. Any relation at
// viewer level or better may look.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	gid, ok := groupID(r)
	if !ok {
		httpjson.BadRequest(w, "bad group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := grouppolicy.Resolve(ctx, h.DB, r, gid, models.GroupRoleViewer)
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

	members, err := h.Members.ListForGroup(ctx, gid)
	if err != nil {
		httpjson.Internal(w, h.Log, "list members failed", err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"group":          group,
		"members":        members,
		"effective_role": v.EffectiveRole,
	})
}
