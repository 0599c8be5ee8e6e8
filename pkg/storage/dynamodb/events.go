package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// Event items are keyed (transaction_id, sequence). Sequence 0 is a meta item
// holding the transaction's next-sequence counter, driven by the same atomic
// ADD primitive as the quota ledger.
const sequenceCounterKey = 0

// subscribePollInterval is how often Subscribe re-reads the log for new events.
const subscribePollInterval = 250 * time.Millisecond

// AppendEvent assigns the next sequence number atomically, writes the event,
// and FIFO-trims the transaction's log past the retention bound.
func (s *Store) AppendEvent(ctx context.Context, txID string, eventType models.EventType, message string, details map[string]any) (int64, error) {
	seq, err := s.nextSequence(ctx, txID)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	ev := models.Event{
		TransactionID: txID,
		Sequence:      seq,
		Type:          eventType,
		Message:       message,
		Details:       details,
		Timestamp:     now,
		TTL:           now.Add(s.cfg.TransactionTTL).Unix(),
	}

	evAV, err := attributevalue.MarshalMap(ev)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.EventsTableName),
		Item:      evAV,
	}); err != nil {
		return 0, fmt.Errorf("failed to append event: %w", err)
	}

	// Sequences are dense from 1, so the entry falling out of the retention
	// window is exactly seq - bound. The newest entry is never the victim.
	if seq > storage.MaxEventsPerTransaction {
		if _, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.EventsTableName),
			Key:       eventKey(txID, seq-storage.MaxEventsPerTransaction),
		}); err != nil {
			return 0, fmt.Errorf("failed to trim event log: %w", err)
		}
	}

	return seq, nil
}

// History returns the transaction's retained events in sequence order.
func (s *Store) History(ctx context.Context, txID string) ([]models.Event, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.EventsTableName),
		KeyConditionExpression: aws.String("transaction_id = :tid AND #seq >= :first"),
		ExpressionAttributeNames: map[string]string{
			"#seq": "sequence",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid":   &types.AttributeValueMemberS{Value: txID},
			":first": &types.AttributeValueMemberN{Value: "1"},
		},
		ScanIndexForward: aws.Bool(true),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query event log: %w", err)
	}

	events := make([]models.Event, 0, len(result.Items))
	for _, item := range result.Items {
		var ev models.Event
		if err := attributevalue.UnmarshalMap(item, &ev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Subscribe polls the event log, replaying from the beginning and following
// live appends until a terminal event or ctx cancellation.
func (s *Store) Subscribe(ctx context.Context, txID string) (<-chan models.Event, error) {
	ch := make(chan models.Event, storage.MaxEventsPerTransaction)

	go func() {
		defer close(ch)

		var lastSeq int64
		ticker := time.NewTicker(subscribePollInterval)
		defer ticker.Stop()

		for {
			events, err := s.History(ctx, txID)
			if err != nil {
				return
			}

			for _, ev := range events {
				if ev.Sequence <= lastSeq {
					continue
				}
				select {
				case ch <- ev:
					lastSeq = ev.Sequence
				case <-ctx.Done():
					return
				}
				if ev.Type.Terminal() {
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (s *Store) nextSequence(ctx context.Context, txID string) (int64, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.EventsTableName),
		Key:              eventKey(txID, sequenceCounterKey),
		UpdateExpression: aws.String("SET #ttl = if_not_exists(#ttl, :expiry) ADD #next :one"),
		ExpressionAttributeNames: map[string]string{
			"#next": "next_sequence",
			"#ttl":  "ttl",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":expiry": &types.AttributeValueMemberN{Value: strconv.FormatInt(s.clock.Now().Add(s.cfg.TransactionTTL).Unix(), 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("failed to advance event sequence: %w", err)
	}

	seqAttr, ok := result.Attributes["next_sequence"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("sequence counter item is missing next_sequence")
	}
	seq, err := strconv.ParseInt(seqAttr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse event sequence: %w", err)
	}
	return seq, nil
}

func eventKey(txID string, seq int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"transaction_id": &types.AttributeValueMemberS{Value: txID},
		"sequence":       &types.AttributeValueMemberN{Value: strconv.FormatInt(seq, 10)},
	}
}
