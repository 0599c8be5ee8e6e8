package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
)

func testSettings(t *testing.T, env map[string]string) *config.Settings {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestLedgerReserveIsLinearizable(t *testing.T) {
	cfg := testSettings(t, nil)
	clk := clock.NewFixed(time.Date(2026, time.March, 15, 10, 0, 0, 0, cfg.Location()))
	store := New(cfg, clk)

	const workers = 50
	counts := make([]int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := store.Reserve(context.Background())
			assert.NoError(t, err)
			counts[i] = n
		}(i)
	}
	wg.Wait()

	// Every reservation observed a distinct slot.
	seen := make(map[int64]bool, workers)
	for _, n := range counts {
		assert.False(t, seen[n], "slot %d handed out twice", n)
		seen[n] = true
	}

	status, err := store.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(workers), status.Count)
}

func TestLedgerReleaseFloorsAtZero(t *testing.T) {
	cfg := testSettings(t, nil)
	clk := clock.NewFixed(time.Date(2026, time.March, 15, 10, 0, 0, 0, cfg.Location()))
	store := New(cfg, clk)
	ctx := context.Background()

	require.NoError(t, store.Release(ctx))

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Count)

	_, err = store.Reserve(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx))
	require.NoError(t, store.Release(ctx))

	status, err = store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Count)
}

func TestLedgerResetsAtMidnight(t *testing.T) {
	cfg := testSettings(t, nil)
	clk := clock.NewFixed(time.Date(2026, time.March, 15, 23, 30, 0, 0, cfg.Location()))
	store := New(cfg, clk)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Reserve(ctx)
		require.NoError(t, err)
	}

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", status.Date)
	assert.Equal(t, int64(3), status.Count)

	// Cross the local midnight boundary.
	clk.Instant = time.Date(2026, time.March, 16, 0, 30, 0, 0, cfg.Location())

	status, err = store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-16", status.Date)
	assert.Equal(t, int64(0), status.Count)
	assert.Equal(t, cfg.DailyDiscountQuota, status.Remaining)
}

func TestLedgerAdminOverrides(t *testing.T) {
	cfg := testSettings(t, nil)
	clk := clock.NewFixed(time.Date(2026, time.March, 15, 10, 0, 0, 0, cfg.Location()))
	store := New(cfg, clk)
	ctx := context.Background()

	t.Run("SetCount", func(t *testing.T) {
		require.NoError(t, store.SetCount(ctx, 42))

		status, err := store.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(42), status.Count)
		assert.Equal(t, cfg.DailyDiscountQuota-42, status.Remaining)
	})

	t.Run("Remaining Floors At Zero", func(t *testing.T) {
		require.NoError(t, store.SetCount(ctx, cfg.DailyDiscountQuota+10))

		status, err := store.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), status.Remaining)
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))

		status, err := store.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), status.Count)
	})
}
