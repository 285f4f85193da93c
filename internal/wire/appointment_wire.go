package wire

import (
	"legal-marketplace/internal/adaptor"
	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAppointment(
	r chi.Router,
	appointmentHandler *adaptor.AppointmentHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
	rt routes,
) {
	r.Route("/api/appointments", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/lawyers/{lawyerId}/availability", availabilityHandler.ListForLawyer)
		r.Get("/lawyers/{lawyerId}/slots", availabilityHandler.Slots)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(rt.auth())

			r.Post("/", appointmentHandler.Create)
			r.Get("/", appointmentHandler.List)
			r.Get("/{id}", appointmentHandler.Get)

			// lifecycle; the service checks who may move the appointment
			r.Post("/{id}/confirm", appointmentHandler.Confirm)
			r.Post("/{id}/complete", appointmentHandler.Complete)
			r.Post("/{id}/no-show", appointmentHandler.NoShow)
			r.Post("/{id}/cancel", appointmentHandler.Cancel)
			r.Post("/{id}/payment", appointmentHandler.RecordPayment)

			r.Post("/{id}/reschedule", appointmentHandler.RequestReschedule)
			r.Get("/{id}/reschedule-requests", appointmentHandler.ListRescheduleRequests)
			r.Post("/reschedule-requests/{id}/respond", appointmentHandler.RespondReschedule)

			r.Get("/{id}/feedback", appointmentHandler.GetFeedback)
			r.Post("/{id}/feedback", appointmentHandler.SubmitFeedback)

			// ==================== LAWYER ROUTES ====================
			r.Route("/availability", func(r chi.Router) {
				r.Use(middleware.RequireRole(rt.log, entity.RoleLawyer))

				r.Get("/", availabilityHandler.ListOwn)
				r.Post("/", availabilityHandler.Create)
				r.Put("/{id}", availabilityHandler.Update)
				r.Delete("/{id}", availabilityHandler.Delete)
			})
		})
	})
}
