package auth

import "github.com/go-chi/chi/v5"

// Routes mounts the account endpoints. Session-bound endpoints sit behind guard.
func (h *Handler) Routes(guard *Middleware) func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/reset-otp", h.SendResetOTP)
		r.Post("/reset-pass", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)
			r.Get("/is-auth", h.IsAuthenticated)
			r.Get("/data", h.GetProfile)
			r.Post("/update-profile", h.UpdateProfile)
			r.Post("/verify-otp", h.SendVerifyOTP)
			r.Post("/verify-email", h.VerifyEmail)
		})
	}
}
