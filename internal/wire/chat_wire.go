package wire

import (
	"legal-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireChat(r chi.Router, chatHandler *adaptor.ChatHandler, rt routes) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Use(rt.auth())

		// AI assistant sessions
		r.Get("/sessions", chatHandler.ListSessions)
		r.Post("/sessions", chatHandler.CreateSession)
		r.Get("/sessions/{id}", chatHandler.GetSession)
		r.Put("/sessions/{id}", chatHandler.UpdateSession)
		r.Delete("/sessions/{id}", chatHandler.DeleteSession)
		r.Get("/sessions/{id}/messages", chatHandler.ListMessages)

		r.With(rt.throttle()).Post("/ai", chatHandler.Ask)
		r.Post("/ai/responses/{id}/feedback", chatHandler.RateResponse)

		// user <-> lawyer threads
		r.Get("/conversations", chatHandler.ListConversations)
		r.Post("/conversations/create", chatHandler.CreateConversation)
		r.Get("/conversations/{id}/messages", chatHandler.ConversationMessages)
		r.Post("/conversations/messages", chatHandler.SendMessage)
	})
}
