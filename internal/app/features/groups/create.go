// internal/app/features/groups/create.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	groupstore "github.com/cardroomhq/stakehub/internal/app/store/groups"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/sanitize"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate creates a group owned by the caller. Creating groups needs
// the global editor role or better; plain users join groups, they don't
// found them.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}
	if role != models.GlobalRoleAdmin && role != models.GlobalRoleEditor {
		httpjson.Forbidden(w, "creating groups requires the editor role")
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	req.Description = sanitize.Text(req.Description)
	if req.Name == "" {
		httpjson.BadRequest(w, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.Create(ctx, models.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     uid,
	})
	if err == groupstore.ErrDuplicateGroupName {
		httpjson.Conflict(w, err.Error())
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "create group failed", err)
		return
	}

	httpjson.Write(w, http.StatusCreated, group)
}
