package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/clinicbook/booking-saga/pkg/models"
)

// Reserve atomically increments today's counter via an ADD update and returns
// the post-increment value. ADD is DynamoDB's atomic counter primitive: two
// concurrent reservations can never observe the same slot. The item's TTL is
// set to the next local midnight on first increment of the day.
func (s *Store) Reserve(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.LedgerTableName),
		Key: map[string]types.AttributeValue{
			"day": &types.AttributeValueMemberS{Value: s.cfg.Day(now)},
		},
		UpdateExpression: aws.String("SET #ttl = if_not_exists(#ttl, :midnight) ADD #count :one"),
		ExpressionAttributeNames: map[string]string{
			"#count": "count",
			"#ttl":   "ttl",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":      &types.AttributeValueMemberN{Value: "1"},
			":midnight": &types.AttributeValueMemberN{Value: strconv.FormatInt(s.cfg.NextMidnight(now).Unix(), 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve quota slot: %w", err)
	}

	return counterValue(result.Attributes)
}

// Release atomically decrements today's counter. The decrement is guarded so
// the counter never goes below zero.
func (s *Store) Release(ctx context.Context) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.LedgerTableName),
		Key: map[string]types.AttributeValue{
			"day": &types.AttributeValueMemberS{Value: s.cfg.Day(s.clock.Now())},
		},
		UpdateExpression:    aws.String("ADD #count :negative_one"),
		ConditionExpression: aws.String("attribute_exists(#count) AND #count >= :one"),
		ExpressionAttributeNames: map[string]string{
			"#count": "count",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":negative_one": &types.AttributeValueMemberN{Value: "-1"},
			":one":          &types.AttributeValueMemberN{Value: "1"},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// Already at the floor; releasing an absent counter is a no-op.
			return nil
		}
		return fmt.Errorf("failed to release quota slot: %w", err)
	}

	return nil
}

// Status reads today's counter without mutating it.
func (s *Store) Status(ctx context.Context) (*models.QuotaStatus, error) {
	day := s.cfg.Day(s.clock.Now())
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.LedgerTableName),
		Key: map[string]types.AttributeValue{
			"day": &types.AttributeValueMemberS{Value: day},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to read quota status: %w", err)
	}

	var count int64
	if result.Item != nil {
		count, err = counterValue(result.Item)
		if err != nil {
			return nil, err
		}
	}

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

// Reset deletes today's counter item.
func (s *Store) Reset(ctx context.Context) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.LedgerTableName),
		Key: map[string]types.AttributeValue{
			"day": &types.AttributeValueMemberS{Value: s.cfg.Day(s.clock.Now())},
		},
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to reset quota counter: %w", err)
	}
	return nil
}

// SetCount forces today's counter to n.
func (s *Store) SetCount(ctx context.Context, n int64) error {
	now := s.clock.Now()
	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.LedgerTableName),
		Item: map[string]types.AttributeValue{
			"day":   &types.AttributeValueMemberS{Value: s.cfg.Day(now)},
			"count": &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)},
			"ttl":   &types.AttributeValueMemberN{Value: strconv.FormatInt(s.cfg.NextMidnight(now).Unix(), 10)},
		},
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to set quota counter: %w", err)
	}
	return nil
}

func counterValue(attrs map[string]types.AttributeValue) (int64, error) {
	countAttr, ok := attrs["count"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("ledger item is missing the count attribute")
	}
	count, err := strconv.ParseInt(countAttr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ledger count: %w", err)
	}
	return count, nil
}
