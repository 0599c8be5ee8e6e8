package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/booking-saga/pkg/api"
	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/publisher"
	"github.com/clinicbook/booking-saga/pkg/saga"
	"github.com/clinicbook/booking-saga/pkg/storage"
	"github.com/clinicbook/booking-saga/pkg/storage/memory"
	"github.com/clinicbook/booking-saga/pkg/storage/mocks"
)

// newBookingHandler builds a handler over the in-memory backend with the
// clock pinned so the birthday rule is deterministic.
func newBookingHandler(t *testing.T) (*ApiHandler, *memory.Store) {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	clk := clock.NewFixed(time.Date(2026, time.March, 15, 10, 0, 0, 0, cfg.Location()))
	store := memory.New(cfg, clk)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	choreographer := saga.NewChoreographer(cfg, clk, store, store, store, &publisher.NoOp{}, logger)
	return NewApiHandler(store, choreographer), store
}

func TestCreateBooking(t *testing.T) {
	newBooking := api.NewBooking{
		User: api.UserInput{
			Name:        "Priya Sharma",
			Gender:      "female",
			DateOfBirth: openapi_types.Date{Time: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)},
		},
		ServiceIds: []string{"f1", "f2"},
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		h, _ := newBookingHandler(t)

		body, _ := json.Marshal(newBooking)
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		// Act
		h.CreateBooking(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var result api.BookingResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, string(models.COMPLETED), result.Status)
		assert.Len(t, result.RequestId, 8)
		require.NotNil(t, result.FinalPrice)
		assert.InDelta(t, 1056.0, *result.FinalPrice, 0.001)
		require.NotNil(t, result.DiscountApplied)
		assert.True(t, *result.DiscountApplied)
		require.NotNil(t, result.BookingReference)
		require.NotNil(t, result.Events)
		assert.Len(t, *result.Events, 5)
	})

	t.Run("Failed Booking Returns 422", func(t *testing.T) {
		// Arrange
		h, _ := newBookingHandler(t)
		h.Saga.Booker().SetFailureSimulation(true)

		body, _ := json.Marshal(newBooking)
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		// Act
		h.CreateBooking(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var result api.BookingResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Equal(t, string(models.FAILED), result.Status)
		require.NotNil(t, result.FailureReason)
		assert.Equal(t, "simulated booking failure", *result.FailureReason)
	})

	t.Run("Validation Failure Returns 422", func(t *testing.T) {
		h, _ := newBookingHandler(t)

		invalid := newBooking
		invalid.User.Name = "X"
		body, _ := json.Marshal(invalid)
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var result api.BookingResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, string(models.FAILED_VALIDATION), result.Status)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		h, _ := newBookingHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte("{not json")))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetBookingById(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.Storage)
		tx := &models.Transaction{ID: "A1B2C3D4", Status: models.COMPLETED, BookingReference: "BK-20260315-7F3A"}
		mockStorage.On("GetTransaction", mock.Anything, "A1B2C3D4").Return(tx, nil)
		mockStorage.On("History", mock.Anything, "A1B2C3D4").Return([]models.Event{}, nil)

		h := NewApiHandler(mockStorage, nil)
		req := httptest.NewRequest(http.MethodGet, "/bookings/A1B2C3D4", nil)
		rr := httptest.NewRecorder()

		// Act
		h.GetBookingById(rr, req, "A1B2C3D4")

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var result api.BookingResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, "A1B2C3D4", result.RequestId)
		require.NotNil(t, result.BookingReference)
		assert.Equal(t, "BK-20260315-7F3A", *result.BookingReference)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetTransaction", mock.Anything, "MISSING1").Return(nil, storage.ErrTransactionNotFound)

		h := NewApiHandler(mockStorage, nil)
		req := httptest.NewRequest(http.MethodGet, "/bookings/MISSING1", nil)
		rr := httptest.NewRecorder()

		h.GetBookingById(rr, req, "MISSING1")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetTransaction", mock.Anything, "A1B2C3D4").Return(nil, errors.New("connection refused"))

		h := NewApiHandler(mockStorage, nil)
		req := httptest.NewRequest(http.MethodGet, "/bookings/A1B2C3D4", nil)
		rr := httptest.NewRecorder()

		h.GetBookingById(rr, req, "A1B2C3D4")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestListServices(t *testing.T) {
	t.Run("Female Catalog", func(t *testing.T) {
		h := NewApiHandler(new(mocks.Storage), nil)
		req := httptest.NewRequest(http.MethodGet, "/services/female", nil)
		rr := httptest.NewRecorder()

		h.ListServices(rr, req, "female")

		assert.Equal(t, http.StatusOK, rr.Code)

		var services []api.Service
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &services))
		assert.Len(t, services, 7)
		assert.Equal(t, "f1", services[0].Id)
	})

	t.Run("Invalid Gender", func(t *testing.T) {
		h := NewApiHandler(new(mocks.Storage), nil)
		req := httptest.NewRequest(http.MethodGet, "/services/other", nil)
		rr := httptest.NewRecorder()

		h.ListServices(rr, req, "other")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("Ping", mock.Anything).Return(nil)

		h := NewApiHandler(mockStorage, nil)
		rr := httptest.NewRecorder()

		h.GetHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var health api.HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
		assert.Equal(t, "healthy", health.Status)
		assert.True(t, health.StorageConnected)
	})

	t.Run("Degraded", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		h := NewApiHandler(mockStorage, nil)
		rr := httptest.NewRecorder()

		h.GetHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var health api.HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
		assert.Equal(t, "degraded", health.Status)
		assert.False(t, health.StorageConnected)
	})
}

func TestAdminEndpoints(t *testing.T) {
	quota := &models.QuotaStatus{Date: "2026-03-15", Count: 10, Limit: 100, Remaining: 90}

	t.Run("GetQuotaStatus", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("Status", mock.Anything).Return(quota, nil)

		h := NewApiHandler(mockStorage, nil)
		rr := httptest.NewRecorder()

		h.GetQuotaStatus(rr, httptest.NewRequest(http.MethodGet, "/admin/quota", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var status api.QuotaStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		assert.Equal(t, int64(10), status.Count)
		assert.Equal(t, int64(90), status.Remaining)
		mockStorage.AssertExpectations(t)
	})

	t.Run("ResetQuota", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("Reset", mock.Anything).Return(nil)
		mockStorage.On("Status", mock.Anything).Return(&models.QuotaStatus{Date: "2026-03-15", Limit: 100, Remaining: 100}, nil)

		h := NewApiHandler(mockStorage, nil)
		rr := httptest.NewRecorder()

		h.ResetQuota(rr, httptest.NewRequest(http.MethodPost, "/admin/quota/reset", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("SetQuotaCount", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("SetCount", mock.Anything, int64(42)).Return(nil)
		mockStorage.On("Status", mock.Anything).Return(&models.QuotaStatus{Date: "2026-03-15", Count: 42, Limit: 100, Remaining: 58}, nil)

		h := NewApiHandler(mockStorage, nil)
		rr := httptest.NewRecorder()

		h.SetQuotaCount(rr, httptest.NewRequest(http.MethodPost, "/admin/quota/set/42", nil), 42)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("SetQuotaCount Rejects Negative", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		h := NewApiHandler(mockStorage, nil)
		rr := httptest.NewRecorder()

		h.SetQuotaCount(rr, httptest.NewRequest(http.MethodPost, "/admin/quota/set/-1", nil), -1)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "SetCount", mock.Anything, mock.Anything)
	})

	t.Run("SetFailureSimulation", func(t *testing.T) {
		h, _ := newBookingHandler(t)

		body, _ := json.Marshal(api.SimulateFailureRequest{Enable: true})
		rr := httptest.NewRecorder()

		h.SetFailureSimulation(rr, httptest.NewRequest(http.MethodPost, "/admin/simulate-failure", bytes.NewReader(body)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, h.Saga.Booker().FailureSimulation())
	})
}

// Guard against the quota ledger leaking slots through the HTTP surface: a
// full request cycle that fails after reservation restores the count.
func TestCreateBookingRestoresQuotaOnFailure(t *testing.T) {
	h, store := newBookingHandler(t)
	h.Saga.Booker().SetFailureSimulation(true)

	newBooking := api.NewBooking{
		User: api.UserInput{
			Name:        "Priya Sharma",
			Gender:      "female",
			DateOfBirth: openapi_types.Date{Time: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)},
		},
		ServiceIds: []string{"f1"},
	}
	body, _ := json.Marshal(newBooking)

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateBooking(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	status, err := store.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Count)
}
