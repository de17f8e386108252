package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-badge-engine/internal/application/achievement"
	"github.com/go-badge-engine/internal/domain"
	"github.com/go-badge-engine/internal/pkg/validate"
)

// Dispatcher runs the badge rules for a trigger.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind domain.TriggerKind, userID string) (*achievement.DispatchReport, error)
}

// DispatchHandler receives trigger notifications from the marketplace services.
type DispatchHandler struct {
	dispatcher Dispatcher
}

func NewDispatchHandler(d Dispatcher) *DispatchHandler {
	return &DispatchHandler{dispatcher: d}
}

func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req domain.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	report, err := h.dispatcher.Dispatch(r.Context(), req.Trigger, req.UserID)
	if err != nil {
		httpError(w, err)
		return
	}

	resp := DispatchEnvelope{
		Trigger:     report.Trigger,
		UserID:      report.UserID,
		Evaluated:   report.Evaluated,
		Awarded:     report.Awarded,
		AlreadyHeld: report.AlreadyHeld,
	}
	if len(report.Failed) > 0 {
		resp.Failed = make(map[string]string, len(report.Failed))
		for k, e := range report.Failed {
			resp.Failed[k] = e.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
