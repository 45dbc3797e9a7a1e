package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"log/slog"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

type actorKey struct{}

// withActor binds the verified identity from the X-Actor-ID and
// X-Actor-Role headers into the request context. Authentication itself
// happens upstream of this service.
func (h *Handler) withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get("X-Actor-ID"))
		if err != nil {
			http.Error(w, "missing or invalid actor", http.StatusUnauthorized)
			return
		}
		role := domain.Role(r.Header.Get("X-Actor-Role"))
		if !role.Valid() {
			http.Error(w, "missing or invalid actor role", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), actorKey{}, domain.Actor{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) domain.Actor {
	a, _ := r.Context().Value(actorKey{}).(domain.Actor)
	return a
}

// pathID parses the {id} route parameter. It writes a 400 response and
// returns false when the parameter is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// decode reads the JSON request body into v, answering 400 on garbage.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// respond writes v as JSON with the given status.
func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// respondErr maps workflow errors onto HTTP statuses. Unrecognized
// errors are logged and answered with a generic 500.
func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, port.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, port.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, port.ErrInvalidState),
		errors.Is(err, port.ErrCapacityExceeded),
		errors.Is(err, port.ErrDuplicateAssignment),
		errors.Is(err, port.ErrAlreadyReviewed),
		errors.Is(err, port.ErrConcurrentModification):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, port.ErrExternalProvider):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
