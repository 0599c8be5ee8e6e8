package saga

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/models"
)

// Booker creates the final booking reference. A runtime failure toggle lets
// operators exercise the compensation path end to end.
type Booker struct {
	cfg          *config.Settings
	clock        clock.Clock
	failBookings atomic.Bool
}

// NewBooker creates a new Booker with the failure toggle initialised from
// configuration.
func NewBooker(cfg *config.Settings, clk clock.Clock) *Booker {
	b := &Booker{cfg: cfg, clock: clk}
	b.failBookings.Store(cfg.SimulateBookingFailure)
	return b
}

func (b *Booker) Name() string { return "book" }

// SetFailureSimulation toggles forced booking failures.
func (b *Booker) SetFailureSimulation(enabled bool) {
	b.failBookings.Store(enabled)
}

// FailureSimulation reports whether forced booking failures are enabled.
func (b *Booker) FailureSimulation() bool {
	return b.failBookings.Load()
}

func (b *Booker) Execute(ctx context.Context, tx models.Transaction) StepResult {
	if b.failBookings.Load() {
		const reason = "simulated booking failure"
		return StepResult{
			Event:   models.EventBookingFailed,
			Message: fmt.Sprintf("Booking failed: %s", reason),
			Details: map[string]any{"error": reason},
			Apply: func(tx *models.Transaction) {
				tx.FailureReason = reason
			},
		}
	}

	reference := b.newReference()
	return StepResult{
		Event:   models.EventBookingCompleted,
		Message: fmt.Sprintf("Booking confirmed with reference %s", reference),
		Details: map[string]any{"booking_reference": reference, "final_price": tx.FinalPrice},
		Apply: func(tx *models.Transaction) {
			tx.BookingReference = reference
			tx.StepsCompleted = append(tx.StepsCompleted, "book")
		},
	}
}

// newReference derives a booking reference from today's date in the
// configured timezone plus a short random suffix, e.g. BK-20260829-7F3A.
func (b *Booker) newReference() string {
	day := b.clock.Now().In(b.cfg.Location()).Format("20060102")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:4])
	return fmt.Sprintf("BK-%s-%s", day, suffix)
}
