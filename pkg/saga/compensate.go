package saga

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// Compensator reverses the side effects recorded as committed in the
// transaction state. Today the only committed resource is the quota slot;
// the QuotaReserved flag guards the release so it can never run twice.
// Compensation is best effort and never retried: a failed release marks the
// transaction for manual follow-up instead.
type Compensator struct {
	ledger storage.QuotaLedger
}

// NewCompensator creates a new Compensator.
func NewCompensator(ledger storage.QuotaLedger) *Compensator {
	return &Compensator{ledger: ledger}
}

func (c *Compensator) Name() string { return "compensate" }

func (c *Compensator) Execute(ctx context.Context, tx models.Transaction) StepResult {
	var actions []string
	releaseFailed := false

	if tx.QuotaReserved {
		if err := c.ledger.Release(ctx); err != nil {
			actions = append(actions, fmt.Sprintf("Quota release FAILED: %v", err))
			releaseFailed = true
		} else {
			actions = append(actions, "Quota released")
		}
	}

	summary := "None required"
	if len(actions) > 0 {
		summary = strings.Join(actions, ", ")
	}

	return StepResult{
		Event:   models.EventCompensationCompleted,
		Message: fmt.Sprintf("Compensation completed. Actions: %s", summary),
		Details: map[string]any{"actions": actions},
		Apply: func(tx *models.Transaction) {
			if tx.QuotaReserved && !releaseFailed {
				tx.QuotaReserved = false
			}
			tx.CompensationPending = releaseFailed
			tx.CompensationActions = append(tx.CompensationActions, actions...)
			tx.StepsCompleted = append(tx.StepsCompleted, "compensate")
		},
	}
}
