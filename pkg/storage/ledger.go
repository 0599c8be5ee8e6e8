package storage

import (
	"context"

	"github.com/clinicbook/booking-saga/pkg/models"
)

// QuotaLedger is the atomic daily counter of discount grants. It is the only
// cross-transaction synchronization point in the system and must be
// linearizable under unbounded concurrent callers.
//
// Reserve follows a commit-then-check policy: the increment always commits,
// even past the limit. Over-limit detection is the caller's read-after-write
// check on the returned count, and every over-limit path must compensate with
// a Release. Two concurrent Reserve calls never observe the same slot.
type QuotaLedger interface {
	// Reserve atomically increments today's counter and returns the
	// post-increment value.
	Reserve(ctx context.Context) (int64, error)

	// Release atomically decrements today's counter, floored at zero.
	Release(ctx context.Context) error

	// Status is a non-mutating read of today's count.
	Status(ctx context.Context) (*models.QuotaStatus, error)

	// Reset forces today's counter to zero. Administrative/testing use only.
	Reset(ctx context.Context) error

	// SetCount forces today's counter to n. Administrative/testing use only.
	SetCount(ctx context.Context, n int64) error
}
