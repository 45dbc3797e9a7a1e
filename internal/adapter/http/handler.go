package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"log/slog"

	"brandreach/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the workflow ports and
// a logger for structured logging; routes live on a chi.Router.
type Handler struct {
	campaigns     port.CampaignWorkflow
	assignments   port.AssignmentWorkflow
	content       port.ContentWorkflow
	payments      port.PaymentWorkflow
	notifications port.NotificationReader
	logger        *slog.Logger
	router        chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(
	campaigns port.CampaignWorkflow,
	assignments port.AssignmentWorkflow,
	content port.ContentWorkflow,
	payments port.PaymentWorkflow,
	notifications port.NotificationReader,
	logger *slog.Logger,
) *Handler {
	h := &Handler{
		campaigns:     campaigns,
		assignments:   assignments,
		content:       content,
		payments:      payments,
		notifications: notifications,
		logger:        logger,
	}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		// Provider callbacks authenticate out of band and carry no
		// platform actor.
		r.Post("/payments/events", h.handlePaymentEvent)

		r.Group(func(r chi.Router) {
			r.Use(h.withActor)

			r.Route("/campaigns", func(r chi.Router) {
				r.Post("/", h.handleCampaignCreate)
				r.Get("/", h.handleCampaignList)
				r.Get("/{id}", h.handleCampaignGet)
				r.Put("/{id}", h.handleCampaignUpdate)
				r.Post("/{id}/status", h.handleCampaignSetStatus)
				r.Delete("/{id}", h.handleCampaignDelete)
				r.Get("/{id}/assignments", h.handleAssignmentListByCampaign)
				r.Get("/{id}/submissions", h.handleContentListByCampaign)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Post("/", h.handleAssignmentCreate)
				r.Get("/{id}", h.handleAssignmentGet)
				r.Post("/{id}/status", h.handleAssignmentSetStatus)
				r.Put("/{id}/payment-amount", h.handleAssignmentSetPaymentAmount)
				r.Delete("/{id}", h.handleAssignmentRemove)
			})

			r.Route("/influencers/{id}", func(r chi.Router) {
				r.Get("/assignments", h.handleAssignmentListByInfluencer)
				r.Get("/submissions", h.handleContentListByInfluencer)
			})

			r.Route("/submissions", func(r chi.Router) {
				r.Post("/", h.handleContentSubmit)
				r.Get("/{id}", h.handleContentGet)
				r.Post("/{id}/review", h.handleContentReview)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", h.handlePaymentInitiate)
				r.Get("/history", h.handlePaymentHistory)
				r.Get("/stats", h.handlePaymentStats)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.handleNotificationList)
				r.Post("/{id}/read", h.handleNotificationMarkRead)
				r.Post("/read-all", h.handleNotificationMarkAllRead)
			})
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
