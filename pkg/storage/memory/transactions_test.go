package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

func TestTransactionLifecycle(t *testing.T) {
	cfg := testSettings(t, nil)
	clk := clock.NewFixed(time.Date(2026, time.March, 15, 10, 0, 0, 0, cfg.Location()))
	store := New(cfg, clk)
	ctx := context.Background()

	tx := &models.Transaction{
		ID:         "A1B2C3D4",
		Status:     models.INITIATED,
		User:       models.User{Name: "Priya Sharma", Gender: models.Female},
		ServiceIDs: []string{"f1", "f2"},
	}

	t.Run("Create And Get", func(t *testing.T) {
		require.NoError(t, store.CreateTransaction(ctx, tx))

		got, err := store.GetTransaction(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, tx.ID, got.ID)
		assert.Equal(t, models.INITIATED, got.Status)
		assert.Equal(t, clk.Instant.Add(cfg.TransactionTTL).Unix(), got.TTL)
	})

	t.Run("Duplicate Create", func(t *testing.T) {
		err := store.CreateTransaction(ctx, tx)
		assert.ErrorIs(t, err, storage.ErrTransactionExists)
	})

	t.Run("Update", func(t *testing.T) {
		updated, err := store.UpdateTransaction(ctx, tx.ID, func(t *models.Transaction) {
			t.Status = models.VALIDATING
		})
		require.NoError(t, err)
		assert.Equal(t, models.VALIDATING, updated.Status)

		got, err := store.GetTransaction(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, models.VALIDATING, got.Status)
	})

	t.Run("Returned Copy Is Isolated", func(t *testing.T) {
		got, err := store.GetTransaction(ctx, tx.ID)
		require.NoError(t, err)

		got.ServiceIDs[0] = "mutated"
		got.Status = models.FAILED

		again, err := store.GetTransaction(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "f1", again.ServiceIDs[0])
		assert.Equal(t, models.VALIDATING, again.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := store.GetTransaction(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrTransactionNotFound)

		_, err = store.UpdateTransaction(ctx, "missing", func(*models.Transaction) {})
		assert.ErrorIs(t, err, storage.ErrTransactionNotFound)
	})
}

func TestTransactionExpiry(t *testing.T) {
	cfg := testSettings(t, nil)
	clk := clock.NewFixed(time.Date(2026, time.March, 15, 10, 0, 0, 0, cfg.Location()))
	store := New(cfg, clk)
	ctx := context.Background()

	tx := &models.Transaction{ID: "B2C3D4E5", Status: models.COMPLETED}
	require.NoError(t, store.CreateTransaction(ctx, tx))

	// Just before expiry the record is still readable.
	clk.Instant = clk.Instant.Add(cfg.TransactionTTL - time.Second)
	_, err := store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)

	// Past the TTL the record is reclaimed on read.
	clk.Instant = clk.Instant.Add(2 * time.Second)
	_, err = store.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, storage.ErrTransactionNotFound)

	_, err = store.UpdateTransaction(ctx, tx.ID, func(*models.Transaction) {})
	assert.ErrorIs(t, err, storage.ErrTransactionNotFound)
}
