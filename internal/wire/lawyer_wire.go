package wire

import (
	"legal-marketplace/internal/adaptor"
	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireLawyer(r chi.Router, lawyerHandler *adaptor.LawyerHandler, rt routes) {
	r.Route("/api/lawyers", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/public", lawyerHandler.ListPublic)
		r.Get("/specializations", lawyerHandler.Specializations)
		r.Get("/{id}", lawyerHandler.GetPublic)
		r.Get("/{id}/ratings", lawyerHandler.ListRatings)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(rt.auth())

			// any user may apply; the profile makes them a lawyer
			r.Post("/profile/create", lawyerHandler.CreateProfile)

			r.Post("/rate", lawyerHandler.Rate)
			r.Put("/ratings/{id}", lawyerHandler.UpdateRating)
			r.Delete("/ratings/{id}", lawyerHandler.DeleteRating)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(rt.log, entity.RoleLawyer))

				r.Get("/profile", lawyerHandler.GetOwnProfile)
				r.Put("/profile", lawyerHandler.UpdateOwnProfile)
				r.Post("/profile/uploads/{kind}", lawyerHandler.UploadDocument)
			})
		})

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(rt.auth())
			r.Use(middleware.Admin(rt.log))

			r.Get("/pending", lawyerHandler.ListPending)
			r.Post("/{id}/approve", lawyerHandler.Decide)
			r.Post("/{id}/suspend", lawyerHandler.Suspend)
			r.Post("/{id}/reinstate", lawyerHandler.Reinstate)
		})
	})
}
