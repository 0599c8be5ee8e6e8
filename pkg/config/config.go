package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Settings holds the application configuration, loaded from environment
// variables with defaults matching the production deployment.
type Settings struct {
	// Business rules.
	DailyDiscountQuota int64   // maximum discounted bookings per day
	DiscountPercentage float64 // discount applied when a quota slot is held
	HighValueThreshold float64 // base price above which the discount applies

	// Timezone governing the quota day boundary and the birthday rule.
	Timezone string

	// TTL for transaction records.
	TransactionTTL time.Duration

	// Failure injection for testing the compensation path.
	SimulateBookingFailure bool

	// HTTP server.
	HTTPPort string

	// Storage backend: "memory" or "dynamodb".
	StorageBackend string

	// DynamoDB table names (dynamodb backend only).
	TransactionsTable string
	LedgerTable       string
	EventsTable       string

	// Optional SQS queue for publishing saga events to external consumers.
	EventsQueueURL string

	location *time.Location
}

// Load reads settings from the environment. Callers are expected to have
// loaded any .env file beforehand (see cmd/app).
func Load() (*Settings, error) {
	s := &Settings{
		DailyDiscountQuota:     envInt64("DAILY_DISCOUNT_QUOTA", 100),
		DiscountPercentage:     envFloat("DISCOUNT_PERCENTAGE", 12.0),
		HighValueThreshold:     envFloat("HIGH_VALUE_THRESHOLD", 1000.0),
		Timezone:               envString("TIMEZONE", "Asia/Kolkata"),
		TransactionTTL:         time.Duration(envInt64("TRANSACTION_TTL_SECONDS", 3600)) * time.Second,
		SimulateBookingFailure: envBool("SIMULATE_BOOKING_FAILURE", false),
		HTTPPort:               envString("HTTP_PORT", "8080"),
		StorageBackend:         envString("STORAGE_BACKEND", "memory"),
		TransactionsTable:      os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		LedgerTable:            os.Getenv("DYNAMODB_LEDGER_TABLE_NAME"),
		EventsTable:            os.Getenv("DYNAMODB_EVENTS_TABLE_NAME"),
		EventsQueueURL:         os.Getenv("SQS_EVENTS_QUEUE_URL"),
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", s.Timezone, err)
	}
	s.location = loc

	if s.DailyDiscountQuota <= 0 {
		return nil, fmt.Errorf("DAILY_DISCOUNT_QUOTA must be positive, got %d", s.DailyDiscountQuota)
	}

	return s, nil
}

// Location returns the configured timezone.
func (s *Settings) Location() *time.Location {
	return s.location
}

// Day formats the calendar day of t in the configured timezone. It is the
// quota ledger's key.
func (s *Settings) Day(t time.Time) string {
	return t.In(s.location).Format("2006-01-02")
}

// NextMidnight returns the next local midnight after t, when the quota
// ledger entry for t's day expires.
func (s *Settings) NextMidnight(t time.Time) time.Time {
	local := t.In(s.location)
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, s.location)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
