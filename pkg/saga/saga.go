// Package saga implements the booking workflow as an event-driven saga:
// each step consumes the current transaction state and emits exactly one
// outcome event, and the choreographer routes every event to the single next
// step. Any failure event after a committed side effect routes to the
// compensation handler, which reverses the commitments it finds recorded in
// the transaction state.
package saga

import (
	"context"

	"github.com/clinicbook/booking-saga/pkg/models"
)

// StepResult is a step's outcome: the event it emits plus a delta for the
// choreographer to apply to the stored transaction. Steps never write to
// shared storage themselves; serializing writes through the choreographer
// avoids torn updates under concurrent transactions.
type StepResult struct {
	Event   models.EventType
	Message string
	Details map[string]any
	Apply   func(*models.Transaction)
}

// Step is a handler for one stage of the workflow. It receives a copy of the
// transaction and must not retain or mutate it beyond building the result.
type Step interface {
	Name() string
	Execute(ctx context.Context, tx models.Transaction) StepResult
}
