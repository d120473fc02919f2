// internal/app/features/stats/routes.go
package stats

import (
	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/tables/{id}", h.HandleTableResults)
		pr.Get("/groups/{id}/leaderboard", h.HandleGroupLeaderboard)
	})

	return r
}
