package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clinicbook/booking-saga/pkg/api"
	"github.com/clinicbook/booking-saga/pkg/mapping"
)

// Admin endpoints are test/ops affordances, not part of the core contract.
// Deployments must guard them (network policy or an authenticating proxy)
// before exposing the service.

// GetQuotaStatus returns the daily discount ledger's current state.
func (h *ApiHandler) GetQuotaStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Store.Status(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read quota status: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToApiQuotaStatus(status))
}

// ResetQuota forces the quota counter to zero.
func (h *ApiHandler) ResetQuota(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Failed to reset quota: %v", err), http.StatusInternalServerError)
		return
	}
	h.GetQuotaStatus(w, r)
}

// SetQuotaCount forces the quota counter to a specific value.
func (h *ApiHandler) SetQuotaCount(w http.ResponseWriter, r *http.Request, count int64) {
	if count < 0 {
		http.Error(w, "Count must be non-negative", http.StatusBadRequest)
		return
	}
	if err := h.Store.SetCount(r.Context(), count); err != nil {
		http.Error(w, fmt.Sprintf("Failed to set quota: %v", err), http.StatusInternalServerError)
		return
	}
	h.GetQuotaStatus(w, r)
}

// SetFailureSimulation toggles forced booking failures.
func (h *ApiHandler) SetFailureSimulation(w http.ResponseWriter, r *http.Request) {
	var req api.SimulateFailureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	h.Saga.Booker().SetFailureSimulation(req.Enable)
	writeJSON(w, http.StatusOK, api.SimulateFailureRequest{Enable: h.Saga.Booker().FailureSimulation()})
}
