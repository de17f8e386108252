package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-badge-engine/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// DispatchEnvelope is the response of the internal dispatch endpoint.
type DispatchEnvelope struct {
	Trigger     domain.TriggerKind `json:"trigger"`
	UserID      string             `json:"user_id"`
	Evaluated   int                `json:"evaluated"`
	Awarded     []string           `json:"awarded"`
	AlreadyHeld []string           `json:"already_held"`
	Failed      map[string]string  `json:"failed,omitempty"`
}

// DataEnvelope wraps list responses.
type DataEnvelope struct {
	Data  interface{} `json:"data"`
	Count int         `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// httpError maps domain sentinel errors to status codes. Anything unknown is
// a 500 and its text is not echoed to the client.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrUnknownTrigger):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
