// internal/app/features/systemusers/handler.go
package systemusers

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/cardroomhq/stakehub/internal/app/store/users"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/paging"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the admin console for user accounts: listing, role changes,
// blocking, and deletion. Routes mount behind RequireRole("admin"), so
// every handler here may assume an admin caller.
type Handler struct {
	Log   *zap.Logger
	Users *userstore.Store
}

// NewHandler constructs a systemusers Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Users: userstore.New(db)}
}

// HandleList returns users sorted by name. ?q= prefix-filters on the
// folded name; ?limit= caps the page.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, paging.Search(r), paging.ParseLimit(r))
	if err != nil {
		httpjson.Internal(w, h.Log, "list users failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"users": users})
}

type roleRequest struct {
	Role string `json:"role"`
}

// HandleSetRole changes a user's global role. Admins cannot demote
// themselves; losing the last admin mid-session is too easy a foot-gun.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.BadRequest(w, "bad user id")
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	role := models.GlobalRole(req.Role)
	if !role.Valid() {
		httpjson.BadRequest(w, "role must be admin, editor, or user")
		return
	}

	_, _, callerID, _ := authz.UserCtx(r)
	if id == callerID && role != models.GlobalRoleAdmin {
		httpjson.BadRequest(w, "cannot change your own admin role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "user not found")
		return
	} else if err != nil {
		httpjson.Internal(w, h.Log, "load user failed", err)
		return
	}

	if err := h.Users.SetRole(ctx, id, role); err != nil {
		httpjson.Internal(w, h.Log, "set role failed", err)
		return
	}
	h.Log.Info("user role changed",
		zap.String("user_id", id.Hex()),
		zap.String("role", string(role)),
		zap.String("by", callerID.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]any{"role": role})
}

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

// HandleSetBlocked blocks or unblocks a user. Blocking takes effect on
// the user's next request; their session cookie stays but stops working.
func (h *Handler) HandleSetBlocked(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.BadRequest(w, "bad user id")
		return
	}

	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}

	_, _, callerID, _ := authz.UserCtx(r)
	if id == callerID && req.Blocked {
		httpjson.BadRequest(w, "cannot block yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "user not found")
		return
	} else if err != nil {
		httpjson.Internal(w, h.Log, "load user failed", err)
		return
	}

	if err := h.Users.SetBlocked(ctx, id, req.Blocked); err != nil {
		httpjson.Internal(w, h.Log, "set blocked failed", err)
		return
	}
	h.Log.Info("user block state changed",
		zap.String("user_id", id.Hex()),
		zap.Bool("blocked", req.Blocked),
		zap.String("by", callerID.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]any{"blocked": req.Blocked})
}

// HandleDelete removes a user account. Group ownerships and memberships
// are left in place; the resolver simply never matches the vanished ID.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.BadRequest(w, "bad user id")
		return
	}

	_, _, callerID, _ := authz.UserCtx(r)
	if id == callerID {
		httpjson.BadRequest(w, "cannot delete yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Users.Delete(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "delete user failed", err)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "user not found")
		return
	}
	h.Log.Info("user deleted",
		zap.String("user_id", id.Hex()),
		zap.String("by", callerID.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]any{"deleted": true})
}

func userID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}
