package httpadapter

import (
	"net/http"

	"github.com/google/uuid"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

func (h *Handler) handleContentSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssignmentID uuid.UUID          `json:"assignment_id"`
		ContentType  domain.ContentType `json:"content_type"`
		ContentURL   string             `json:"content_url"`
		Caption      string             `json:"caption"`
		Platform     domain.Platform    `json:"platform"`
	}
	if !decode(w, r, &req) {
		return
	}
	sub, err := h.content.Submit(r.Context(), actorFrom(r), port.SubmitContentInput{
		AssignmentID: req.AssignmentID,
		ContentType:  req.ContentType,
		ContentURL:   req.ContentURL,
		Caption:      req.Caption,
		Platform:     req.Platform,
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, sub)
}

func (h *Handler) handleContentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.content.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, d)
}

func (h *Handler) handleContentListByCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var status *domain.SubmissionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ss := domain.SubmissionStatus(s)
		if !ss.Valid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		status = &ss
	}
	list, err := h.content.ListByCampaign(r.Context(), actorFrom(r), id, status)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) handleContentListByInfluencer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := h.content.ListByInfluencer(r.Context(), actorFrom(r), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) handleContentReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status        domain.SubmissionStatus `json:"status"`
		Feedback      string                  `json:"feedback"`
		RevisionNotes string                  `json:"revision_notes"`
	}
	if !decode(w, r, &req) {
		return
	}
	sub, err := h.content.Review(r.Context(), actorFrom(r), id, port.ReviewContentInput{
		Status:        req.Status,
		Feedback:      req.Feedback,
		RevisionNotes: req.RevisionNotes,
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, sub)
}
