package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/order-notifier/internal/domain"
	"github.com/joao-fontenele/order-notifier/internal/messaging"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	brokers := flag.String("brokers", os.Getenv("KAFKA_BROKERS"), "comma separated kafka brokers")
	topic := flag.String("topic", "order-placed", "topic to publish to")
	email := flag.String("email", "", "customer email")
	firstName := flag.String("first-name", "", "customer first name")
	lastName := flag.String("last-name", "", "customer last name")
	orderNumber := flag.String("order-number", "", "order number (generated when empty)")
	flag.Parse()

	if *brokers == "" {
		logger.Error("usage: publish -brokers host:port -email a@b.co -first-name Jane -last-name Doe")
		os.Exit(1)
	}

	if *orderNumber == "" {
		*orderNumber = "ORD-" + strings.ToUpper(uuid.NewString()[:8])
	}

	event := domain.OrderPlacedEvent{
		Email:       *email,
		FirstName:   *firstName,
		LastName:    *lastName,
		OrderNumber: *orderNumber,
	}

	producer := messaging.NewProducer(strings.Split(*brokers, ","), *topic, messaging.WithSyncWrites())
	defer func() { _ = producer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := producer.Publish(ctx, event.OrderNumber, event); err != nil {
		logger.Error("failed to publish event", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("event published", slog.String("topic", *topic), slog.String("order_number", event.OrderNumber))
}
