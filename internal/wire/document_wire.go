package wire

import (
	"legal-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDocument(r chi.Router, documentHandler *adaptor.DocumentHandler, rt routes) {
	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/types", documentHandler.Types)

		r.Group(func(r chi.Router) {
			r.Use(rt.auth())

			r.Post("/upload", documentHandler.Upload)
			r.Get("/", documentHandler.List)
			r.Get("/shared", documentHandler.ListShared)

			r.Get("/{id}", documentHandler.Get)
			r.Put("/{id}", documentHandler.Update)
			r.Delete("/{id}", documentHandler.Delete)

			r.Post("/{id}/analyze", documentHandler.Analyze)
			r.Get("/{id}/analysis", documentHandler.GetAnalysis)

			r.Post("/{id}/share", documentHandler.Share)
			r.Get("/{id}/shares", documentHandler.ListShares)
			r.Delete("/{id}/shares/{shareId}", documentHandler.RevokeShare)

			r.Get("/{id}/comments", documentHandler.ListComments)
			r.Post("/{id}/comments", documentHandler.AddComment)
		})
	})
}
