package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// CreateTransaction persists a new transaction record with the configured TTL.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	now := s.clock.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	tx.TTL = now.Add(s.cfg.TransactionTTL).Unix()

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.TransactionsTableName),
		Item:                txAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrTransactionExists
		}
		return fmt.Errorf("failed to create transaction in DynamoDB: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction from DynamoDB by its id. Records
// past their TTL are treated as absent even before DynamoDB reclaims them.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": txID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrTransactionNotFound
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	if tx.TTL > 0 && tx.TTL <= s.clock.Now().Unix() {
		return nil, storage.ErrTransactionNotFound
	}

	return &tx, nil
}

// UpdateTransaction applies mutate and writes the record back. The saga runs
// a single writer per transaction id, so a read-modify-write is sufficient;
// there is no cross-transaction contention on these items.
func (s *Store) UpdateTransaction(ctx context.Context, txID string, mutate func(*models.Transaction)) (*models.Transaction, error) {
	tx, err := s.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}

	mutate(tx)
	tx.UpdatedAt = s.clock.Now()

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Item:      txAV,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to update transaction in DynamoDB: %w", err)
	}

	return tx, nil
}
