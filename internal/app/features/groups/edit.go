// internal/app/features/groups/edit.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	groupstore "github.com/cardroomhq/stakehub/internal/app/store/groups"
	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/sanitize"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
)

type editGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// HandleEdit updates a group's name, description, or status. Only the
// owner (or an admin) may change the group itself; group editors edit
// tables, not the group.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	gid, ok := groupID(r)
	if !ok {
		httpjson.BadRequest(w, "bad group id")
		return
	}

	var req editGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	req.Description = sanitize.Text(req.Description)
	if req.Status != "" && req.Status != models.GroupStatusActive && req.Status != models.GroupStatusInactive {
		httpjson.BadRequest(w, "status must be active or inactive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	if err := h.Groups.UpdateInfo(ctx, gid, req.Name, req.Description, req.Status); err != nil {
		if err == groupstore.ErrDuplicateGroupName {
			httpjson.Conflict(w, err.Error())
			return
		}
		httpjson.Internal(w, h.Log, "update group failed", err)
		return
	}

	group, err := h.Groups.GetByID(ctx, gid)
	if err != nil {
		httpjson.Internal(w, h.Log, "reload group failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, group)
}
