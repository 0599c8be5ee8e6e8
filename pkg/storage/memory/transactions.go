package memory

import (
	"context"

	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// CreateTransaction stores a new transaction record with the configured TTL.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	now := s.clock.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	tx.TTL = now.Add(s.cfg.TransactionTTL).Unix()

	rec := &txRecord{tx: *cloneTransaction(tx)}
	if _, loaded := s.transactions.LoadOrStore(tx.ID, rec); loaded {
		return storage.ErrTransactionExists
	}
	return nil
}

// GetTransaction returns a copy of the stored record. Expired records are
// reclaimed lazily on read.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	rec, ok := s.transactions.Load(txID)
	if !ok {
		return nil, storage.ErrTransactionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.tx.TTL > 0 && rec.tx.TTL <= s.clock.Now().Unix() {
		s.transactions.Delete(txID)
		return nil, storage.ErrTransactionNotFound
	}
	return cloneTransaction(&rec.tx), nil
}

// UpdateTransaction applies mutate under the record's lock and returns the
// updated state.
func (s *Store) UpdateTransaction(ctx context.Context, txID string, mutate func(*models.Transaction)) (*models.Transaction, error) {
	rec, ok := s.transactions.Load(txID)
	if !ok {
		return nil, storage.ErrTransactionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	now := s.clock.Now()
	if rec.tx.TTL > 0 && rec.tx.TTL <= now.Unix() {
		s.transactions.Delete(txID)
		return nil, storage.ErrTransactionNotFound
	}

	mutate(&rec.tx)
	rec.tx.UpdatedAt = now
	return cloneTransaction(&rec.tx), nil
}
