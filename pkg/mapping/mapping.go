package mapping

import (
	"strings"

	"github.com/google/uuid"

	"github.com/clinicbook/booking-saga/pkg/api"
	"github.com/clinicbook/booking-saga/pkg/models"
)

// ToDomainNewBooking converts an API NewBooking into a fresh domain
// transaction with a newly assigned request id.
func ToDomainNewBooking(newBooking *api.NewBooking) *models.Transaction {
	return &models.Transaction{
		ID: NewRequestID(),
		User: models.User{
			Name:        newBooking.User.Name,
			Gender:      models.Gender(newBooking.User.Gender),
			DateOfBirth: newBooking.User.DateOfBirth.Time,
		},
		ServiceIDs: newBooking.ServiceIds,
	}
}

// NewRequestID returns a short, human-readable transaction id.
func NewRequestID() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// ToApiBookingResult projects a domain transaction (and its event history)
// into the API result model.
func ToApiBookingResult(tx *models.Transaction, events []models.Event) *api.BookingResult {
	result := &api.BookingResult{
		RequestId: tx.ID,
		Status:    string(tx.Status),
		Success:   tx.Status == models.COMPLETED,
		BasePrice: &tx.BasePrice,
	}

	if tx.DiscountEligible {
		applied := tx.QuotaReserved
		result.DiscountApplied = &applied
		result.DiscountPercentage = &tx.DiscountPercentage
		reason := string(tx.DiscountReason)
		result.DiscountReason = &reason
	}

	if tx.Status.Terminal() {
		result.FinalPrice = &tx.FinalPrice
	}
	if tx.BookingReference != "" {
		result.BookingReference = &tx.BookingReference
	}
	if tx.FailureReason != "" {
		result.FailureReason = &tx.FailureReason
	}
	if tx.CompensationPending {
		result.CompensationPending = &tx.CompensationPending
	}

	if len(tx.Services) > 0 {
		services := make([]api.Service, len(tx.Services))
		for i, svc := range tx.Services {
			services[i] = *ToApiService(&svc)
		}
		result.Services = &services
	}

	if len(events) > 0 {
		apiEvents := make([]api.BookingEvent, len(events))
		for i, ev := range events {
			apiEvents[i] = *ToApiBookingEvent(&ev)
		}
		result.Events = &apiEvents
	}

	return result
}

// ToApiService converts a domain catalog service to its API model.
func ToApiService(svc *models.ClinicService) *api.Service {
	out := &api.Service{
		Id:    svc.ID,
		Name:  svc.Name,
		Price: svc.Price,
	}
	if svc.Description != "" {
		out.Description = &svc.Description
	}
	return out
}

// ToApiBookingEvent converts a domain event to its API model.
func ToApiBookingEvent(ev *models.Event) *api.BookingEvent {
	out := &api.BookingEvent{
		Sequence:  ev.Sequence,
		Type:      string(ev.Type),
		Message:   ev.Message,
		Timestamp: ev.Timestamp,
	}
	if len(ev.Details) > 0 {
		details := map[string]interface{}(ev.Details)
		out.Details = &details
	}
	return out
}

// ToApiQuotaStatus converts a domain quota read to its API model.
func ToApiQuotaStatus(status *models.QuotaStatus) *api.QuotaStatus {
	return &api.QuotaStatus{
		Date:      status.Date,
		Count:     status.Count,
		Limit:     status.Limit,
		Remaining: status.Remaining,
	}
}
