package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clinicbook/booking-saga/pkg/storage/dynamodb/mocks"
)

func ledgerKeyedToDay(input *dynamodb.UpdateItemInput, day string) bool {
	attr, ok := input.Key["day"].(*types.AttributeValueMemberS)
	return ok && attr.Value == day
}

func TestReserve(t *testing.T) {
	t.Run("Returns Post-Increment Count", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.UpdateItemInput) bool {
			return ledgerKeyedToDay(input, "2026-03-15") && input.ReturnValues == types.ReturnValueUpdatedNew
		})).Return(&dynamodb.UpdateItemOutput{
			Attributes: map[string]types.AttributeValue{
				"count": &types.AttributeValueMemberN{Value: "42"},
			},
		}, nil)

		count, err := store.Reserve(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := store.Reserve(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reserve quota slot")
		mockClient.AssertExpectations(t)
	})

	t.Run("Malformed Counter", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(&dynamodb.UpdateItemOutput{
			Attributes: map[string]types.AttributeValue{},
		}, nil)

		_, err := store.Reserve(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing the count attribute")
		mockClient.AssertExpectations(t)
	})
}

func TestRelease(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.UpdateItemInput) bool {
			return input.ConditionExpression != nil
		})).Return(&dynamodb.UpdateItemOutput{}, nil)

		err := store.Release(context.Background())

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already At Floor", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := store.Release(context.Background())

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := store.Release(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to release quota slot")
		mockClient.AssertExpectations(t)
	})
}

func TestStatus(t *testing.T) {
	t.Run("Existing Counter", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"day":   &types.AttributeValueMemberS{Value: "2026-03-15"},
				"count": &types.AttributeValueMemberN{Value: "60"},
			},
		}, nil)

		status, err := store.Status(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "2026-03-15", status.Date)
		assert.Equal(t, int64(60), status.Count)
		assert.Equal(t, int64(100), status.Limit)
		assert.Equal(t, int64(40), status.Remaining)
		mockClient.AssertExpectations(t)
	})

	t.Run("No Counter Yet", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store, _ := testStore(t, mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		status, err := store.Status(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(0), status.Count)
		assert.Equal(t, int64(100), status.Remaining)
		mockClient.AssertExpectations(t)
	})
}
