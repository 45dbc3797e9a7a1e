package httpadapter

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

func (h *Handler) handlePaymentInitiate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssignmentID uuid.UUID       `json:"assignment_id"`
		Amount       decimal.Decimal `json:"amount"`
		Currency     string          `json:"currency"`
		ProviderRef  string          `json:"provider_ref"`
	}
	if !decode(w, r, &req) {
		return
	}
	p, err := h.payments.Initiate(r.Context(), actorFrom(r), port.InitiatePaymentInput{
		AssignmentID: req.AssignmentID,
		Gross:        req.Amount,
		Currency:     req.Currency,
		ProviderRef:  req.ProviderRef,
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, p)
}

// handlePaymentEvent receives provider outcome callbacks. The endpoint
// is idempotent: replaying an event answers 200 with the settled
// payment and causes no further effects.
func (h *Handler) handlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProviderRef string                  `json:"provider_ref"`
		Event       domain.PaymentEventKind `json:"event"`
	}
	if !decode(w, r, &req) {
		return
	}
	p, err := h.payments.ApplyEvent(r.Context(), port.PaymentEvent{
		ProviderRef: req.ProviderRef,
		Kind:        req.Event,
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, p)
}

func (h *Handler) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.payments.History(r.Context(), actorFrom(r))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) handlePaymentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.payments.Stats(r.Context(), actorFrom(r))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, stats)
}
