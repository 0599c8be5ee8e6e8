// Package memory implements the storage interfaces with process-local state.
// It is the default backend: the design assumes a single logical coordinator
// sharing one atomic counter, so a mutex-guarded integer satisfies the
// ledger's linearizability requirement.
package memory

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// Store implements the Storage interface in memory.
type Store struct {
	cfg   *config.Settings
	clock clock.Clock

	transactions *xsync.MapOf[string, *txRecord]
	logs         *xsync.MapOf[string, *txLog]

	ledgerMu sync.Mutex
	counts   map[string]int64 // keyed by calendar day in the configured timezone
}

// New creates a new Store.
func New(cfg *config.Settings, clk clock.Clock) *Store {
	return &Store{
		cfg:          cfg,
		clock:        clk,
		transactions: xsync.NewMapOf[string, *txRecord](),
		logs:         xsync.NewMapOf[string, *txLog](),
		counts:       make(map[string]int64),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// Ping always succeeds for the in-memory backend.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// txRecord guards one transaction's state. The saga runs a single writer per
// transaction, so this lock only orders a writer against readers.
type txRecord struct {
	mu sync.Mutex
	tx models.Transaction
}

func cloneTransaction(tx *models.Transaction) *models.Transaction {
	out := *tx
	out.StepsCompleted = append([]string(nil), tx.StepsCompleted...)
	out.ServiceIDs = append([]string(nil), tx.ServiceIDs...)
	out.Services = append([]models.ClinicService(nil), tx.Services...)
	out.CompensationActions = append([]string(nil), tx.CompensationActions...)
	return &out
}
