package storage

import "context"

// Storage defines the root interface for the entire data layer.
// It composes all available storage operations. Components should depend on
// the more granular interfaces (TransactionStore, QuotaLedger, EventLog)
// instead of this one.
type Storage interface {
	TransactionStore
	QuotaLedger
	EventLog

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
