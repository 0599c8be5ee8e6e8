package models

import (
	"time"
)

// TransactionStatus defines the possible states of a booking transaction.
type TransactionStatus string

const (
	INITIATED         TransactionStatus = "INITIATED"
	VALIDATING        TransactionStatus = "VALIDATING"
	PRICING           TransactionStatus = "PRICING"
	QUOTA_CHECKING    TransactionStatus = "QUOTA_CHECKING"
	BOOKING           TransactionStatus = "BOOKING"
	COMPLETED         TransactionStatus = "COMPLETED"
	COMPENSATING      TransactionStatus = "COMPENSATING"
	FAILED            TransactionStatus = "FAILED"
	FAILED_VALIDATION TransactionStatus = "FAILED_VALIDATION"
)

// Terminal reports whether no further transitions are possible from this status.
func (s TransactionStatus) Terminal() bool {
	return s == COMPLETED || s == FAILED || s == FAILED_VALIDATION
}

// EventType identifies a step outcome event in the booking workflow.
type EventType string

const (
	EventBookingInitiated      EventType = "booking.initiated"
	EventValidationCompleted   EventType = "validation.completed"
	EventValidationFailed      EventType = "validation.failed"
	EventPricingCompleted      EventType = "pricing.completed"
	EventQuotaReserved         EventType = "quota.reserved"
	EventQuotaExhausted        EventType = "quota.exhausted"
	EventQuotaFailed           EventType = "quota.failed"
	EventBookingCompleted      EventType = "booking.completed"
	EventBookingFailed         EventType = "booking.failed"
	EventCompensationCompleted EventType = "compensation.completed"
)

// Failure reports whether the event routes the transaction off the happy path.
func (e EventType) Failure() bool {
	switch e {
	case EventValidationFailed, EventQuotaExhausted, EventQuotaFailed, EventBookingFailed:
		return true
	}
	return false
}

// Terminal reports whether the event ends a transaction's event stream.
func (e EventType) Terminal() bool {
	switch e {
	case EventBookingCompleted, EventCompensationCompleted, EventValidationFailed:
		return true
	}
	return false
}

// Gender enumerates the catalog's service groupings.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// DiscountReason records why a transaction qualified for the discount.
type DiscountReason string

const (
	DiscountNone      DiscountReason = "none"
	DiscountBirthday  DiscountReason = "birthday"
	DiscountHighValue DiscountReason = "high_value"
)

// User holds the booking requestor's details.
type User struct {
	Name        string    `json:"name" dynamodbav:"name"`
	Gender      Gender    `json:"gender" dynamodbav:"gender"`
	DateOfBirth time.Time `json:"date_of_birth" dynamodbav:"date_of_birth"`
}

// ClinicService is a bookable catalog item.
type ClinicService struct {
	ID          string  `json:"id" dynamodbav:"id"`
	Name        string  `json:"name" dynamodbav:"name"`
	Price       float64 `json:"price" dynamodbav:"price"`
	Description string  `json:"description,omitempty" dynamodbav:"description,omitempty"`
}

// Transaction represents the internal domain model for one booking saga.
// It includes dynamodbav tags for marshalling.
// The choreographer is the only writer; step handlers receive a copy and
// return a delta for the choreographer to apply.
type Transaction struct {
	ID                  string            `dynamodbav:"id"`
	Status              TransactionStatus `dynamodbav:"status"`
	StepsCompleted      []string          `dynamodbav:"steps_completed,omitempty"`
	User                User              `dynamodbav:"user"`
	ServiceIDs          []string          `dynamodbav:"service_ids"`
	Services            []ClinicService   `dynamodbav:"services,omitempty"`
	BasePrice           float64           `dynamodbav:"base_price"`
	DiscountEligible    bool              `dynamodbav:"discount_eligible"`
	DiscountReason      DiscountReason    `dynamodbav:"discount_reason"`
	DiscountPercentage  float64           `dynamodbav:"discount_percentage"`
	FinalPrice          float64           `dynamodbav:"final_price"`
	QuotaReserved       bool              `dynamodbav:"quota_reserved"`
	BookingReference    string            `dynamodbav:"booking_reference,omitempty"`
	FailureReason       string            `dynamodbav:"failure_reason,omitempty"`
	CompensationPending bool              `dynamodbav:"compensation_pending"`
	CompensationActions []string          `dynamodbav:"compensation_actions,omitempty"`
	CreatedAt           time.Time         `dynamodbav:"created_at"`
	UpdatedAt           time.Time         `dynamodbav:"updated_at"`
	TTL                 int64             `dynamodbav:"ttl,omitempty"`
}

// Event is a single append-only entry in a transaction's event log.
type Event struct {
	TransactionID string         `json:"transaction_id" dynamodbav:"transaction_id"`
	Sequence      int64          `json:"sequence" dynamodbav:"sequence"`
	Type          EventType      `json:"type" dynamodbav:"type"`
	Message       string         `json:"message" dynamodbav:"message"`
	Details       map[string]any `json:"details,omitempty" dynamodbav:"details,omitempty"`
	Timestamp     time.Time      `json:"timestamp" dynamodbav:"timestamp"`
	TTL           int64          `json:"-" dynamodbav:"ttl,omitempty"`
}

// QuotaStatus is a point-in-time read of the daily discount ledger.
type QuotaStatus struct {
	Date      string `json:"date"`
	Count     int64  `json:"count"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
}
