// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.HandleList)
		pr.Patch("/{id}/role", h.HandleSetRole)
		pr.Patch("/{id}/block", h.HandleSetBlocked)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
