// internal/app/features/tables/create.go
package tables

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/sanitize"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createTableRequest struct {
	Name    string `json:"name"`
	Stakes  string `json:"stakes"`
	GroupID string `json:"group_id"`
}

// HandleCreate opens a new table. Requires the global editor role or
// better. Group tables additionally need editor-level access to the
// group; ungrouped tables belong to the creator alone.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}
	if role != models.GlobalRoleAdmin && role != models.GlobalRoleEditor {
		httpjson.Forbidden(w, "creating tables requires the editor role")
		return
	}

	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	req.Stakes = sanitize.Text(req.Stakes)
	if req.Name == "" {
		httpjson.BadRequest(w, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	table := models.Table{
		Name:      req.Name,
		Stakes:    req.Stakes,
		CreatorID: uid,
	}

	if req.GroupID != "" {
		gid, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			httpjson.BadRequest(w, "bad group_id")
			return
		}

		v, err := grouppolicy.Resolve(ctx, h.DB, r, gid, models.GroupRoleEditor)
		if err != nil {
			httpjson.Internal(w, h.Log, "resolve group access failed", err)
			return
		}
		if !v.Allowed {
			httpjson.Denied(w, v)
			return
		}
		table.GroupID = &gid
	}

	created, err := h.Tables.Create(ctx, table)
	if err != nil {
		httpjson.Internal(w, h.Log, "create table failed", err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}
