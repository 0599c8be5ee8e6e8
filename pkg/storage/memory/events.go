package memory

import (
	"context"
	"sync"

	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// subscriberBuffer exceeds the retention bound so a replayed history plus the
// live tail of one transaction always fits without blocking the appender.
const subscriberBuffer = 256

type txLog struct {
	mu       sync.Mutex
	nextSeq  int64
	entries  []models.Event
	subs     []*subscriber
	terminal bool
}

type subscriber struct {
	ch   chan models.Event
	once sync.Once
}

func (sub *subscriber) close() {
	sub.once.Do(func() { close(sub.ch) })
}

// AppendEvent adds an event to the transaction's log, trims the oldest
// entries past the retention bound, and fans the event out to subscribers.
func (s *Store) AppendEvent(ctx context.Context, txID string, eventType models.EventType, message string, details map[string]any) (int64, error) {
	log, _ := s.logs.LoadOrStore(txID, &txLog{nextSeq: 1})

	log.mu.Lock()
	defer log.mu.Unlock()

	ev := models.Event{
		TransactionID: txID,
		Sequence:      log.nextSeq,
		Type:          eventType,
		Message:       message,
		Details:       details,
		Timestamp:     s.clock.Now(),
	}
	log.nextSeq++

	log.entries = append(log.entries, ev)
	if len(log.entries) > storage.MaxEventsPerTransaction {
		log.entries = log.entries[len(log.entries)-storage.MaxEventsPerTransaction:]
	}

	for _, sub := range log.subs {
		select {
		case sub.ch <- ev:
		default:
			// Slow consumer; the subscription is a read-side tap and must
			// never block the appender.
		}
	}

	if eventType.Terminal() {
		log.terminal = true
		for _, sub := range log.subs {
			sub.close()
		}
		log.subs = nil
	}

	return ev.Sequence, nil
}

// History returns an ordered snapshot of the transaction's log.
func (s *Store) History(ctx context.Context, txID string) ([]models.Event, error) {
	log, ok := s.logs.Load(txID)
	if !ok {
		return nil, nil
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]models.Event(nil), log.entries...), nil
}

// Subscribe replays the transaction's log from the beginning and then follows
// live appends until a terminal event or ctx cancellation.
func (s *Store) Subscribe(ctx context.Context, txID string) (<-chan models.Event, error) {
	log, _ := s.logs.LoadOrStore(txID, &txLog{nextSeq: 1})

	log.mu.Lock()
	defer log.mu.Unlock()

	sub := &subscriber{ch: make(chan models.Event, subscriberBuffer)}
	for _, ev := range log.entries {
		sub.ch <- ev
	}

	if log.terminal {
		sub.close()
		return sub.ch, nil
	}

	log.subs = append(log.subs, sub)

	go func() {
		<-ctx.Done()
		log.mu.Lock()
		for i, candidate := range log.subs {
			if candidate == sub {
				log.subs = append(log.subs[:i], log.subs[i+1:]...)
				break
			}
		}
		log.mu.Unlock()
		sub.close()
	}()

	return sub.ch, nil
}
