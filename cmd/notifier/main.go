package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/order-notifier/internal/config"
	"github.com/joao-fontenele/order-notifier/internal/mail"
	"github.com/joao-fontenele/order-notifier/internal/messaging"
	"github.com/joao-fontenele/order-notifier/internal/notification"
	"github.com/joao-fontenele/order-notifier/internal/telemetry"
)

const (
	serviceName    = "notification-service"
	serviceVersion = "0.1.0"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred shutdowns run before main
// exits, so spans recorded for a failed message are flushed.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TracesEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("failed to initialize tracer", "error", err)
			return 1
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	} else {
		telemetry.InitPropagator()
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		return 1
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	sender, err := newSender(cfg)
	if err != nil {
		logger.Error("failed to create mail transport", "error", err, "transport", cfg.MailTransport)
		return 1
	}

	dispatcher, err := notification.NewDispatcher(sender,
		notification.Template{From: cfg.MailFrom, Brand: cfg.MailBrand},
		logger,
	)
	if err != nil {
		logger.Error("failed to create dispatcher", "error", err)
		return 1
	}

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, cfg.Topic, cfg.ConsumerGroup,
		messaging.WithStartOffset(kafka.FirstOffset),
		messaging.WithErrorLogger(logger),
	)
	defer func() { _ = consumer.Close() }()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", "port", cfg.MetricsPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting notification consumer",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.Topic,
		"group", cfg.ConsumerGroup,
		"transport", cfg.MailTransport,
	)

	consumeErr := consumer.Consume(ctx, dispatcher.Handle)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	if consumeErr != nil {
		if errors.Is(consumeErr, context.Canceled) {
			logger.Info("consumer stopped")
			return 0
		}

		// The failed message stays uncommitted; exiting lets the supervisor
		// restart the process and the group redeliver it.
		var herr *messaging.HandlerError
		if errors.As(consumeErr, &herr) {
			logger.Error("message processing failed",
				"error", herr.Err,
				"topic", herr.Topic,
				"partition", herr.Partition,
				"offset", herr.Offset,
			)
		} else {
			logger.Error("consumer error", "error", consumeErr)
		}
		return 1
	}

	return 0
}

func newSender(cfg *config.Config) (notification.Sender, error) {
	switch cfg.MailTransport {
	case config.TransportHTTP:
		client := &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
		return mail.NewHTTPSender(cfg.EmailServiceURL, client), nil
	default:
		sender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			TLS:      cfg.SMTPTLS,
			Timeout:  cfg.SMTPTimeout,
		})
		if err != nil {
			return nil, err
		}
		return sender, nil
	}
}
