package saga

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/publisher"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// Choreographer routes each step outcome event to the single next handler.
// It owns all transaction writes: handlers return deltas, the choreographer
// persists them, appends the outcome event, and decides what runs next.
// A transaction's steps run strictly in sequence within one inbound request;
// concurrent transactions share only the quota ledger and the event log.
type Choreographer struct {
	store  storage.TransactionStore
	log    storage.EventLog
	pub    publisher.Publisher
	logger *slog.Logger

	validate   Step
	price      Step
	reserve    Step
	book       *Booker
	compensate Step
}

// NewChoreographer wires the step handlers around the given stores.
func NewChoreographer(cfg *config.Settings, clk clock.Clock, store storage.TransactionStore, ledger storage.QuotaLedger, log storage.EventLog, pub publisher.Publisher, logger *slog.Logger) *Choreographer {
	return &Choreographer{
		store:      store,
		log:        log,
		pub:        pub,
		logger:     logger,
		validate:   NewValidator(),
		price:      NewPricer(cfg, clk),
		reserve:    NewQuotaReserver(cfg, ledger),
		book:       NewBooker(cfg, clk),
		compensate: NewCompensator(ledger),
	}
}

// Booker exposes the booking step for the admin failure toggle.
func (c *Choreographer) Booker() *Booker {
	return c.book
}

// transition names the status a transaction holds while the next step runs.
type transition struct {
	status models.TransactionStatus
	step   Step
}

// route is the flat event routing table. Exactly one handler runs per event;
// there is no fan-out. A transaction that is not discount eligible skips the
// quota step entirely.
func (c *Choreographer) route(tx *models.Transaction, ev models.EventType) (transition, bool) {
	switch ev {
	case models.EventBookingInitiated:
		return transition{models.VALIDATING, c.validate}, true
	case models.EventValidationCompleted:
		return transition{models.PRICING, c.price}, true
	case models.EventPricingCompleted:
		if tx.DiscountEligible {
			return transition{models.QUOTA_CHECKING, c.reserve}, true
		}
		return transition{models.BOOKING, c.book}, true
	case models.EventQuotaReserved:
		return transition{models.BOOKING, c.book}, true
	}
	return transition{}, false
}

// Run executes a booking transaction to a terminal state and returns the
// final record. The caller provides the id, user and service selection; Run
// creates the record, appends booking.initiated and drives the event loop.
func (c *Choreographer) Run(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	tx.Status = models.INITIATED
	tx.DiscountReason = models.DiscountNone
	if err := c.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction record: %w", err)
	}

	c.append(ctx, tx.ID, models.EventBookingInitiated, "Booking request received", map[string]any{
		"user":     tx.User.Name,
		"services": tx.ServiceIDs,
	})

	ev := models.EventBookingInitiated
	for {
		next, ok := c.route(tx, ev)
		if !ok {
			return c.abort(ctx, tx, fmt.Errorf("no route for event %s in status %s", ev, tx.Status))
		}

		updated, err := c.store.UpdateTransaction(ctx, tx.ID, func(t *models.Transaction) {
			t.Status = next.status
		})
		if err != nil {
			return c.abort(ctx, tx, fmt.Errorf("failed to persist status %s: %w", next.status, err))
		}
		tx = updated

		c.logger.Info("running saga step",
			slog.String("transaction_id", tx.ID),
			slog.String("step", next.step.Name()),
			slog.String("status", string(tx.Status)))

		result := next.step.Execute(ctx, *tx)

		updated, err = c.store.UpdateTransaction(ctx, tx.ID, result.Apply)
		if err != nil {
			// The step's side effects are committed even though the write
			// failed. Fold the delta into the local copy so abort still
			// sees a held quota slot.
			result.Apply(tx)
			return c.abort(ctx, tx, fmt.Errorf("failed to persist %s delta: %w", next.step.Name(), err))
		}
		tx = updated
		c.append(ctx, tx.ID, result.Event, result.Message, result.Details)

		if result.Event.Failure() {
			return c.fail(ctx, tx, result.Event)
		}

		if result.Event == models.EventBookingCompleted {
			final, err := c.store.UpdateTransaction(ctx, tx.ID, func(t *models.Transaction) {
				t.Status = models.COMPLETED
			})
			if err != nil {
				// The booking itself succeeded, so the quota slot stays
				// consumed; this is a stale record, not a leaked slot.
				c.logger.Error("failed to persist terminal status",
					slog.String("transaction_id", tx.ID),
					slog.Any("error", err))
				return nil, fmt.Errorf("failed to persist terminal status: %w", err)
			}
			return final, nil
		}

		ev = result.Event
	}
}

// fail routes a failure event to its terminal state. Validation failures are
// terminal without compensation — nothing was committed yet. Every other
// failure runs the compensation handler exactly once before the transaction
// settles in FAILED.
func (c *Choreographer) fail(ctx context.Context, tx *models.Transaction, ev models.EventType) (*models.Transaction, error) {
	if ev == models.EventValidationFailed {
		return c.store.UpdateTransaction(ctx, tx.ID, func(t *models.Transaction) {
			t.Status = models.FAILED_VALIDATION
		})
	}

	updated, err := c.store.UpdateTransaction(ctx, tx.ID, func(t *models.Transaction) {
		t.Status = models.COMPENSATING
	})
	if err != nil {
		return c.abort(ctx, tx, fmt.Errorf("failed to enter compensation: %w", err))
	}
	tx = updated

	c.logger.Warn("compensation triggered",
		slog.String("transaction_id", tx.ID),
		slog.String("trigger", string(ev)),
		slog.Bool("quota_reserved", tx.QuotaReserved))

	result := c.compensate.Execute(ctx, *tx)

	// Compensation already ran; do not route this through abort, which
	// would release the slot a second time.
	updated, err = c.store.UpdateTransaction(ctx, tx.ID, result.Apply)
	if err != nil {
		c.logger.Error("failed to persist compensation delta",
			slog.String("transaction_id", tx.ID),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist compensation delta: %w", err)
	}
	tx = updated
	c.append(ctx, tx.ID, result.Event, result.Message, result.Details)

	return c.store.UpdateTransaction(ctx, tx.ID, func(t *models.Transaction) {
		t.Status = models.FAILED
	})
}

// abort handles infrastructure failures mid-saga: the transaction cannot
// proceed, so if a quota slot is held, release it best-effort before
// surfacing the error.
func (c *Choreographer) abort(ctx context.Context, tx *models.Transaction, err error) (*models.Transaction, error) {
	txID := ""
	if tx != nil {
		txID = tx.ID
	}
	if tx != nil && tx.QuotaReserved {
		result := c.compensate.Execute(ctx, *tx)
		if updated, uerr := c.store.UpdateTransaction(ctx, tx.ID, result.Apply); uerr == nil {
			tx = updated
		}
		c.append(ctx, tx.ID, result.Event, result.Message, result.Details)
		if updated, uerr := c.store.UpdateTransaction(ctx, tx.ID, func(t *models.Transaction) {
			t.Status = models.FAILED
			t.FailureReason = err.Error()
		}); uerr == nil {
			tx = updated
		}
	}
	c.logger.Error("saga aborted", slog.String("transaction_id", txID), slog.Any("error", err))
	return nil, err
}

// append records the event in the log and forwards it to the external
// publisher. Publishing is best effort; the log is the source of truth.
func (c *Choreographer) append(ctx context.Context, txID string, eventType models.EventType, message string, details map[string]any) {
	seq, err := c.log.AppendEvent(ctx, txID, eventType, message, details)
	if err != nil {
		c.logger.Error("failed to append event",
			slog.String("transaction_id", txID),
			slog.String("event", string(eventType)),
			slog.Any("error", err))
		return
	}

	ev := models.Event{
		TransactionID: txID,
		Sequence:      seq,
		Type:          eventType,
		Message:       message,
		Details:       details,
	}
	if err := c.pub.PublishEvent(ctx, ev); err != nil {
		c.logger.Error("failed to publish event",
			slog.String("transaction_id", txID),
			slog.String("event", string(eventType)),
			slog.Any("error", err))
	}
}
