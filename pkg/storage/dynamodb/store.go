// Package dynamodb implements the storage interfaces on AWS DynamoDB.
// The quota ledger is a per-day item whose counter is driven by atomic ADD
// updates, with a TTL attribute expiring it at the local midnight boundary.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	TransactionsTableName string
	LedgerTableName       string
	EventsTableName       string

	cfg   *config.Settings
	clock clock.Clock
}

// New creates a new Store.
func New(client DynamoDBAPI, cfg *config.Settings, clk clock.Clock, transactionsTable, ledgerTable, eventsTable string) *Store {
	return &Store{
		Client:                client,
		TransactionsTableName: transactionsTable,
		LedgerTableName:       ledgerTable,
		EventsTableName:       eventsTable,
		cfg:                   cfg,
		clock:                 clk,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// Ping verifies the backing tables are reachable with a ledger read.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.Status(ctx)
	return err
}
