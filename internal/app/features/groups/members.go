// internal/app/features/groups/members.go
package groups

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	membershipstore "github.com/cardroomhq/stakehub/internal/app/store/memberships"
	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type memberRequest struct {
	UserID string           `json:"user_id"`
	Role   models.GroupRole `json:"role"`
}

// HandleAddMember adds a user to the group as editor or viewer. Owner or
// admin only. The added user is notified.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	gid, ok := groupID(r)
	if !ok {
		httpjson.BadRequest(w, "bad group id")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	uid, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.BadRequest(w, "bad user id")
		return
	}
	if !req.Role.ValidMembership() {
		httpjson.BadRequest(w, "role must be editor or viewer")
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

	// The user must exist; memberships never point at ghosts.
	member, err := h.Users.GetByID(ctx, uid)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "user not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "load user failed", err)
		return
	}

	switch err := h.Members.Add(ctx, gid, uid, req.Role); err {
	case nil:
	case membershipstore.ErrOwnerIsMember:
		httpjson.BadRequest(w, err.Error())
		return
	case membershipstore.ErrDuplicateMembership:
		httpjson.Conflict(w, err.Error())
		return
	default:
		httpjson.Internal(w, h.Log, "add member failed", err)
		return
	}

	group, err := h.Groups.GetByID(ctx, gid)
	if err == nil {
		h.notify(ctx, member.ID, models.NotifyMemberAdded,
			fmt.Sprintf("You were added to %q as %s.", group.Name, req.Role))
	}

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"group_id": gid.Hex(),
		"user_id":  uid.Hex(),
		"role":     req.Role,
	})
}

// HandleUpdateMemberRole changes a member's role between editor and
// viewer. Owner or admin only.
func (h *Handler) HandleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	gid, ok := groupID(r)
	if !ok {
		httpjson.BadRequest(w, "bad group id")
		return
	}
	uid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.BadRequest(w, "bad user id")
		return
	}

	var req struct {
		Role models.GroupRole `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	if !req.Role.ValidMembership() {
		httpjson.BadRequest(w, "role must be editor or viewer")
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

	if err := h.Members.UpdateRole(ctx, gid, uid, req.Role); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "membership not found")
			return
		}
		httpjson.Internal(w, h.Log, "update member role failed", err)
		return
	}

	if group, gErr := h.Groups.GetByID(ctx, gid); gErr == nil {
		h.notify(ctx, uid, models.NotifyRoleChanged,
			fmt.Sprintf("Your role in %q is now %s.", group.Name, req.Role))
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"group_id": gid.Hex(),
		"user_id":  uid.Hex(),
		"role":     req.Role,
	})
}

// HandleRemoveMember removes a member from the group. Owner or admin only.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	gid, ok := groupID(r)
	if !ok {
		httpjson.BadRequest(w, "bad group id")
		return
	}
	uid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.BadRequest(w, "bad user id")
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

	if err := h.Members.Remove(ctx, gid, uid); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "membership not found")
			return
		}
		httpjson.Internal(w, h.Log, "remove member failed", err)
		return
	}

	if group, gErr := h.Groups.GetByID(ctx, gid); gErr == nil {
		h.notify(ctx, uid, models.NotifyMemberRemoved,
			fmt.Sprintf("You were removed from %q.", group.Name))
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"removed": true})
}

// HandleJoin adds the caller to an active group as a viewer. Inactive
// groups cannot be joined, only viewed by existing relations.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}
	gid, gok := groupID(r)
	if !gok {
		httpjson.BadRequest(w, "bad group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, gid)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "group not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "load group failed", err)
		return
	}
	if !group.Active() {
		httpjson.Forbidden(w, "this group is not accepting new members")
		return
	}

	switch err := h.Members.Add(ctx, gid, uid, models.GroupRoleViewer); err {
	case nil:
	case membershipstore.ErrOwnerIsMember:
		httpjson.BadRequest(w, "you already own this group")
		return
	case membershipstore.ErrDuplicateMembership:
		httpjson.Conflict(w, err.Error())
		return
	default:
		httpjson.Internal(w, h.Log, "join group failed", err)
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"group_id": gid.Hex(),
		"role":     models.GroupRoleViewer,
	})
}

// HandleLeave removes the caller's own membership. Owners cannot leave;
// they transfer ownership or delete the group.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}
	gid, gok := groupID(r)
	if !gok {
		httpjson.BadRequest(w, "bad group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Members.Remove(ctx, gid, uid); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "you are not a member of this group")
			return
		}
		httpjson.Internal(w, h.Log, "leave group failed", err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"left": true})
}
