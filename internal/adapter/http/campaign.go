package httpadapter

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// campaignRequest is the JSON body for creating and updating campaigns.
type campaignRequest struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Budget            decimal.Decimal `json:"budget"`
	Currency          string          `json:"currency"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	Deliverables      []string        `json:"deliverables"`
	TargetAudience    map[string]any  `json:"target_audience"`
	ContentGuidelines string          `json:"content_guidelines"`
	ApprovalRequired  bool            `json:"approval_required"`
	MaxInfluencers    int             `json:"max_influencers"`
}

func (req campaignRequest) toInput() port.CreateCampaignInput {
	return port.CreateCampaignInput{
		Title:             req.Title,
		Description:       req.Description,
		Budget:            req.Budget,
		Currency:          req.Currency,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Deliverables:      req.Deliverables,
		TargetAudience:    req.TargetAudience,
		ContentGuidelines: req.ContentGuidelines,
		ApprovalRequired:  req.ApprovalRequired,
		MaxInfluencers:    req.MaxInfluencers,
	}
}

func (h *Handler) handleCampaignCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.campaigns.Create(r.Context(), actorFrom(r), req.toInput())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, c)
}

func (h *Handler) handleCampaignList(w http.ResponseWriter, r *http.Request) {
	var status *domain.CampaignStatus
	if s := r.URL.Query().Get("status"); s != "" {
		cs := domain.CampaignStatus(s)
		if !cs.Valid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		status = &cs
	}
	list, err := h.campaigns.List(r.Context(), actorFrom(r), status)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) handleCampaignGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *Handler) handleCampaignUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req campaignRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.campaigns.Update(r.Context(), actorFrom(r), id, req.toInput())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *Handler) handleCampaignSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status domain.CampaignStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	c, err := h.campaigns.SetStatus(r.Context(), actorFrom(r), id, req.Status)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *Handler) handleCampaignDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.campaigns.Delete(r.Context(), actorFrom(r), id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
