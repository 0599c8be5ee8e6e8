package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/joho/godotenv"
)

var logger *slog.Logger

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// HandleRequest consumes booking saga events from SQS and writes them to the
// audit log. Failure events are logged at error level so alerting can key off
// them downstream.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		var event models.Event
		if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
			logger.Error("failed to unmarshal event from SQS message",
				slog.String("message_id", message.MessageId),
				slog.String("error", err.Error()))
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		attrs := []any{
			slog.String("transaction_id", event.TransactionID),
			slog.Int64("sequence", event.Sequence),
			slog.String("type", string(event.Type)),
			slog.String("message", event.Message),
		}

		if event.Type.Failure() {
			logger.Error("booking saga failure event", attrs...)
		} else {
			logger.Info("booking saga event", attrs...)
		}
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
