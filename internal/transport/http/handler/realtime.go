package handler

import (
	"net/http"

	"github.com/go-badge-engine/internal/transport/http/middleware"
	"go.uber.org/zap"
)

// Upgrader attaches a websocket connection to a user.
type Upgrader interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

// RealtimeHandler opens the live notification stream.
type RealtimeHandler struct {
	hub    Upgrader
	logger *zap.Logger
}

func NewRealtimeHandler(hub Upgrader, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, logger: logger}
}

func (h *RealtimeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	// The upgrader has already written an HTTP error when this fails.
	if err := h.hub.ServeWS(w, r, claims.UserID); err != nil {
		h.logger.Warn("realtime upgrade failed", zap.String("user_id", claims.UserID), zap.Error(err))
	}
}
