package storage

import (
	"context"

	"github.com/clinicbook/booking-saga/pkg/models"
)

// TransactionStore defines the interface for persisting transaction state.
// Records carry a fixed TTL and are reclaimed automatically; there is no
// delete operation. Updates are atomic per transaction id — the saga runs
// a single writer per transaction, so no cross-transaction locking is needed.
type TransactionStore interface {
	// CreateTransaction persists a new transaction record.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by its id, returning
	// ErrTransactionNotFound if it is absent or expired.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// UpdateTransaction applies mutate to the stored record atomically with
	// respect to other updates on the same id, and returns the new state.
	UpdateTransaction(ctx context.Context, txID string, mutate func(*models.Transaction)) (*models.Transaction, error)
}
