// internal/app/features/register/routes.go
package register

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleRegister)
	r.Post("/resend", h.HandleResend)
	r.Get("/verify", h.HandleVerify)

	return r
}
