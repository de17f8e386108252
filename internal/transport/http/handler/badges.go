package handler

import (
	"context"
	"net/http"

	"github.com/go-badge-engine/internal/application/achievement"
	"github.com/go-badge-engine/internal/domain"
	"github.com/go-chi/chi/v5"
)

// BadgeQuery is the read side of the badge store.
type BadgeQuery interface {
	Catalog(ctx context.Context) ([]domain.Badge, error)
	Held(ctx context.Context, userID string) ([]achievement.HeldBadge, error)
}

// BadgeHandler serves the badge catalog and user holdings.
type BadgeHandler struct {
	query BadgeQuery
}

func NewBadgeHandler(q BadgeQuery) *BadgeHandler {
	return &BadgeHandler{query: q}
}

func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	badges, err := h.query.Catalog(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: badges, Count: len(badges)})
}

// ListHeld returns any user's badges; badge holdings are public profile data.
func (h *BadgeHandler) ListHeld(w http.ResponseWriter, r *http.Request) {
	held, err := h.query.Held(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: held, Count: len(held)})
}
