package wire

import (
	"legal-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, userHandler *adaptor.UserHandler, rt routes) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.With(rt.throttle()).Post("/register", authHandler.Register)
		r.With(rt.throttle()).Post("/login", authHandler.Login)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(rt.auth())

			r.Post("/logout", authHandler.Logout)
			r.Post("/change-password", authHandler.ChangePassword)

			r.Get("/user", userHandler.CurrentUser)
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Post("/profile/picture", userHandler.UploadPicture)
			r.Get("/profile/details", userHandler.GetDetails)
			r.Put("/profile/details", userHandler.UpdateDetails)
		})
	})
}
