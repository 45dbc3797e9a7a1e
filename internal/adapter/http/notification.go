package httpadapter

import (
	"net/http"
)

func (h *Handler) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := h.notifications.List(r.Context(), actorFrom(r), unreadOnly)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) handleNotificationMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(r.Context(), actorFrom(r), id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNotificationMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkAllRead(r.Context(), actorFrom(r)); err != nil {
		h.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
