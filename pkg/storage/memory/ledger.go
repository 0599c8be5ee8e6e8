package memory

import (
	"context"

	"github.com/clinicbook/booking-saga/pkg/models"
)

// Reserve atomically increments today's counter and returns the new count.
// The increment always commits; callers detect the over-limit case from the
// returned value and compensate with Release.
func (s *Store) Reserve(ctx context.Context) (int64, error) {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	day := s.currentDayLocked()
	s.counts[day]++
	return s.counts[day], nil
}

// Release atomically decrements today's counter, floored at zero.
func (s *Store) Release(ctx context.Context) error {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	day := s.currentDayLocked()
	if s.counts[day] > 0 {
		s.counts[day]--
	}
	return nil
}

// Status returns today's count against the configured limit.
func (s *Store) Status(ctx context.Context) (*models.QuotaStatus, error) {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	day := s.currentDayLocked()
	count := s.counts[day]
	remaining := s.cfg.DailyDiscountQuota - count
	if remaining < 0 {
		remaining = 0
	}
	return &models.QuotaStatus{
		Date:      day,
		Count:     count,
		Limit:     s.cfg.DailyDiscountQuota,
		Remaining: remaining,
	}, nil
}

// Reset forces today's counter to zero.
func (s *Store) Reset(ctx context.Context) error {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	delete(s.counts, s.currentDayLocked())
	return nil
}

// SetCount forces today's counter to n.
func (s *Store) SetCount(ctx context.Context, n int64) error {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	s.counts[s.currentDayLocked()] = n
	return nil
}

// currentDayLocked computes today's ledger key and drops entries for past
// days. Keying by day makes expiry at the local midnight boundary lazy: an
// old day's counter is simply never addressed again.
func (s *Store) currentDayLocked() string {
	day := s.cfg.Day(s.clock.Now())
	for k := range s.counts {
		if k != day {
			delete(s.counts, k)
		}
	}
	return day
}
