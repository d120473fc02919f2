// internal/app/features/groups/routes.go
package groups

import (
	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}", h.HandleView)
		pr.Patch("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/transfer", h.HandleTransfer)
		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)

		pr.Post("/{id}/members", h.HandleAddMember)
		pr.Patch("/{id}/members/{userID}", h.HandleUpdateMemberRole)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
	})

	return r
}
