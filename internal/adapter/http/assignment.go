package httpadapter

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
)

func (h *Handler) handleAssignmentCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CampaignID    uuid.UUID        `json:"campaign_id"`
		InfluencerID  uuid.UUID        `json:"influencer_id"`
		PaymentAmount *decimal.Decimal `json:"payment_amount,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}
	a, err := h.assignments.Create(r.Context(), actorFrom(r), req.CampaignID, req.InfluencerID, req.PaymentAmount)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, a)
}

func (h *Handler) handleAssignmentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.assignments.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, a)
}

func (h *Handler) handleAssignmentListByCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := h.assignments.ListByCampaign(r.Context(), actorFrom(r), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) handleAssignmentListByInfluencer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var status *domain.AssignmentStatus
	if s := r.URL.Query().Get("status"); s != "" {
		as := domain.AssignmentStatus(s)
		if !as.Valid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		status = &as
	}
	list, err := h.assignments.ListByInfluencer(r.Context(), actorFrom(r), id, status)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) handleAssignmentSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status domain.AssignmentStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	a, err := h.assignments.SetStatus(r.Context(), actorFrom(r), id, req.Status)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, a)
}

func (h *Handler) handleAssignmentSetPaymentAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		PaymentAmount decimal.Decimal `json:"payment_amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	a, err := h.assignments.SetPaymentAmount(r.Context(), actorFrom(r), id, req.PaymentAmount)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, a)
}

func (h *Handler) handleAssignmentRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.assignments.Remove(r.Context(), actorFrom(r), id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
