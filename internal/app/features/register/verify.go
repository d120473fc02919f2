// internal/app/features/register/verify.go
package register

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/store/emailverify"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// HandleVerify consumes a verification token, activates the account, and
// promotes it to the global editor role. Each token works exactly once.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token := query.Get(r, "token")
	if token == "" {
		httpjson.BadRequest(w, "token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, err := h.Verify.Consume(ctx, token)
	switch err {
	case nil:
	case emailverify.ErrNotFound:
		httpjson.NotFound(w, "verification token not found")
		return
	case emailverify.ErrExpired:
		httpjson.Error(w, http.StatusGone, "token_expired", "verification token expired; request a new one")
		return
	default:
		httpjson.Internal(w, h.Log, "consume verification failed", err)
		return
	}

	if err := h.Users.Activate(ctx, userID); err != nil {
		httpjson.Internal(w, h.Log, "activate user failed", err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{
		"status": "verified",
		"id":     userID.Hex(),
	})
}
