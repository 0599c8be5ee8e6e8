package saga

import (
	"context"
	"fmt"

	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// QuotaReserver holds a slot in the daily discount ledger. The increment
// commits unconditionally; when the returned count exceeds the limit the
// slot is still held, so the handler records the reservation and emits
// quota.exhausted for the choreographer to compensate.
type QuotaReserver struct {
	cfg    *config.Settings
	ledger storage.QuotaLedger
}

// NewQuotaReserver creates a new QuotaReserver.
func NewQuotaReserver(cfg *config.Settings, ledger storage.QuotaLedger) *QuotaReserver {
	return &QuotaReserver{cfg: cfg, ledger: ledger}
}

func (q *QuotaReserver) Name() string { return "reserve-quota" }

func (q *QuotaReserver) Execute(ctx context.Context, tx models.Transaction) StepResult {
	newCount, err := q.ledger.Reserve(ctx)
	if err != nil {
		// Ledger outage: nothing was committed, fail without a reservation.
		reason := fmt.Sprintf("quota ledger unavailable: %v", err)
		return StepResult{
			Event:   models.EventQuotaFailed,
			Message: reason,
			Details: map[string]any{"error": err.Error()},
			Apply: func(tx *models.Transaction) {
				tx.FailureReason = reason
			},
		}
	}

	limit := q.cfg.DailyDiscountQuota
	if newCount <= limit {
		finalPrice := tx.BasePrice * (1 - q.cfg.DiscountPercentage/100)
		return StepResult{
			Event:   models.EventQuotaReserved,
			Message: fmt.Sprintf("Discount quota reserved. Slot %d/%d", newCount, limit),
			Details: map[string]any{"slot": newCount, "limit": limit},
			Apply: func(tx *models.Transaction) {
				tx.QuotaReserved = true
				tx.FinalPrice = finalPrice
				tx.StepsCompleted = append(tx.StepsCompleted, "reserve-quota")
			},
		}
	}

	// Over the limit. The increment is already committed, so the reservation
	// flag is set to reflect the outstanding slot; compensation reverts it.
	return StepResult{
		Event:   models.EventQuotaExhausted,
		Message: fmt.Sprintf("Daily discount quota exceeded (%d/%d). Compensation will release the reserved slot.", newCount, limit),
		Details: map[string]any{"count": newCount, "limit": limit},
		Apply: func(tx *models.Transaction) {
			tx.QuotaReserved = true
			tx.FailureReason = "quota reached: daily discount quota exhausted, please try again tomorrow"
		},
	}
}
