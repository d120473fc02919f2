// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
)

// HandleList returns the groups the caller has a relation to: owned plus
// membered. Admins see every group.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Group
		err  error
	)
	if role == models.GlobalRoleAdmin {
		list, err = h.Groups.ListAll(ctx)
	} else {
		memberOf, mErr := h.Members.GroupIDsForUser(ctx, uid)
		if mErr != nil {
			httpjson.Internal(w, h.Log, "list memberships failed", mErr)
			return
		}
		list, err = h.Groups.ListByIDs(ctx, memberOf, uid)
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "list groups failed", err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"groups": list})
}
