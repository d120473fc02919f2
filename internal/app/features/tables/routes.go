// internal/app/features/tables/routes.go
package tables

import (
	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /tables requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}", h.HandleView)
		pr.Patch("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/status", h.HandleStatus)

		pr.Post("/{id}/players", h.HandleAddPlayer)
		pr.Delete("/{id}/players/{playerID}", h.HandleRemovePlayer)

		pr.Post("/{id}/buyins", h.HandleBuyIn)
		pr.Post("/{id}/cashouts", h.HandleCashOut)
	})

	return r
}
