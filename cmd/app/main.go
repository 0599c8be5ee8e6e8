package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/clinicbook/booking-saga/pkg/api"
	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/handlers"
	"github.com/clinicbook/booking-saga/pkg/handlers/stream"
	appmiddleware "github.com/clinicbook/booking-saga/pkg/middleware"
	"github.com/clinicbook/booking-saga/pkg/publisher"
	"github.com/clinicbook/booking-saga/pkg/saga"
	"github.com/clinicbook/booking-saga/pkg/storage"
	dynamostore "github.com/clinicbook/booking-saga/pkg/storage/dynamodb"
	"github.com/clinicbook/booking-saga/pkg/storage/memory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	clk := clock.NewSystem()

	var store storage.Storage
	switch cfg.StorageBackend {
	case "memory":
		store = memory.New(cfg, clk)
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		if cfg.TransactionsTable == "" || cfg.LedgerTable == "" || cfg.EventsTable == "" {
			log.Fatal("One or more DynamoDB table name environment variables are not set")
		}
		store = dynamostore.New(dynamodb.NewFromConfig(awsCfg), cfg, clk, cfg.TransactionsTable, cfg.LedgerTable, cfg.EventsTable)
	default:
		log.Fatalf("unknown storage backend %q", cfg.StorageBackend)
	}

	// Event publishing is best-effort and optional in local development.
	var pub publisher.Publisher = &publisher.NoOp{}
	if cfg.EventsQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		pub = publisher.NewSQSPublisher(awssqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)
	}

	choreographer := saga.NewChoreographer(cfg, clk, store, store, store, pub, logger)

	handler := handlers.NewApiHandler(store, choreographer)
	streamHandler := stream.NewHandler(store, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(appmiddleware.NewStructuredLogger(logger))

	// Use the generated function to mount our handler on the router
	api.HandlerFromMux(handler, router)

	// Live event streaming sits outside the OpenAPI surface.
	router.Get("/bookings/{bookingId}/events", streamHandler.ServeHTTP)

	logger.Info("starting server", slog.String("port", cfg.HTTPPort), slog.String("backend", cfg.StorageBackend))

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
