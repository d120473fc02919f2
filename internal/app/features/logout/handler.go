// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// HandleLogout ends the session. Signing out while already signed out is
// fine; the response is the same.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		httpjson.Internal(w, h.Log, "end session failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
