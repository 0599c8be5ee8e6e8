package storage

import (
	"context"

	"github.com/clinicbook/booking-saga/pkg/models"
)

// MaxEventsPerTransaction bounds each transaction's event log. Exceeding it
// evicts the oldest entries first; the newest entry is never dropped.
const MaxEventsPerTransaction = 100

// EventLog is the append-only, ordered record of step events per transaction.
// The choreographer appends; the choreographer and any number of observers
// read. Within one transaction the log order is the causal step order.
type EventLog interface {
	// AppendEvent adds an event to the transaction's log and returns its
	// sequence position.
	AppendEvent(ctx context.Context, txID string, eventType models.EventType, message string, details map[string]any) (int64, error)

	// History returns an ordered snapshot of the transaction's log.
	History(ctx context.Context, txID string) ([]models.Event, error)

	// Subscribe returns an ordered event stream for the transaction that
	// replays from the beginning and then follows live appends. The channel
	// is closed after a terminal event or when ctx is cancelled. Abandoning
	// a subscription never affects transaction execution.
	Subscribe(ctx context.Context, txID string) (<-chan models.Event, error)
}
