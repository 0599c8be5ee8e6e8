package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/clinicbook/booking-saga/pkg/api"
	"github.com/clinicbook/booking-saga/pkg/catalog"
	"github.com/clinicbook/booking-saga/pkg/mapping"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/saga"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// ApiHandler implements the generated server interface.
// It holds the application's dependencies: the storage layer and the saga
// choreographer that drives each booking to a terminal state.
type ApiHandler struct {
	Store storage.Storage
	Saga  *saga.Choreographer
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(store storage.Storage, choreographer *saga.Choreographer) *ApiHandler {
	return &ApiHandler{Store: store, Saga: choreographer}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// CreateBooking accepts a booking request, runs the saga synchronously and
// responds with the terminal projection: 201 when the booking completed,
// 422 when it reached a failed terminal state.
func (h *ApiHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var newBooking api.NewBooking
	if err := json.NewDecoder(r.Body).Decode(&newBooking); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	domainTx := mapping.ToDomainNewBooking(&newBooking)

	finalTx, err := h.Saga.Run(r.Context(), domainTx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to process booking: %v", err), http.StatusInternalServerError)
		return
	}

	events, err := h.Store.History(r.Context(), finalTx.ID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read booking events: %v", err), http.StatusInternalServerError)
		return
	}

	status := http.StatusCreated
	if finalTx.Status != models.COMPLETED {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, mapping.ToApiBookingResult(finalTx, events))
}

// GetBookingById returns the current booking projection.
func (h *ApiHandler) GetBookingById(w http.ResponseWriter, r *http.Request, bookingId string) {
	tx, err := h.Store.GetTransaction(r.Context(), bookingId)
	if err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			http.Error(w, "Booking not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve booking: %v", err), http.StatusInternalServerError)
		}
		return
	}

	events, err := h.Store.History(r.Context(), tx.ID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read booking events: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, mapping.ToApiBookingResult(tx, events))
}

// ListServices returns the catalog for a gender.
func (h *ApiHandler) ListServices(w http.ResponseWriter, r *http.Request, gender api.Gender) {
	services, err := catalog.ByGender(models.Gender(gender))
	if err != nil {
		http.Error(w, "Invalid gender. Use 'male' or 'female'", http.StatusBadRequest)
		return
	}

	apiServices := make([]*api.Service, len(services))
	for i, svc := range services {
		apiServices[i] = mapping.ToApiService(&svc)
	}
	writeJSON(w, http.StatusOK, apiServices)
}

// GetHealth reports whether the storage backend is reachable.
func (h *ApiHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	connected := h.Store.Ping(r.Context()) == nil
	status := "healthy"
	if !connected {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:           status,
		StorageConnected: connected,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
