// Package publisher forwards saga events to external consumers. Delivery is
// best effort: the event log is the source of truth, and the choreographer
// never fails a transaction because a publish failed.
package publisher

import (
	"context"

	"github.com/clinicbook/booking-saga/pkg/models"
)

// Publisher defines the interface for forwarding a saga event off-process.
type Publisher interface {
	PublishEvent(ctx context.Context, ev models.Event) error
}

// NoOp is a publisher that does nothing. It backs deployments without an
// event queue and keeps tests quiet.
type NoOp struct{}

// PublishEvent does nothing.
func (NoOp) PublishEvent(ctx context.Context, ev models.Event) error {
	return nil
}
