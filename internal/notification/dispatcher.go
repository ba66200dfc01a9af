// Package notification turns order-placed events into confirmation emails.
//
// Every event goes through the same linear pipeline: validate the required
// fields, validate the email syntax, render the message, make a single send
// attempt and classify the outcome. Invalid events are logged and dropped;
// send failures are returned to the caller as a *DeliveryError so that the
// stream consumer can leave the message uncommitted.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/order-notifier/internal/domain"
	"github.com/joao-fontenele/order-notifier/internal/mail"
)

const instrumentationName = "notification/dispatcher"

// Sender delivers a rendered message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Outcome string

const (
	OutcomeSent           Outcome = "sent"
	OutcomeDropped        Outcome = "dropped"
	OutcomeDeliveryFailed Outcome = "delivery_failed"
)

type DropReason string

const (
	DropReasonMalformedPayload DropReason = "malformed_payload"
	DropReasonInvalidEvent     DropReason = "invalid_event"
	DropReasonInvalidEmail     DropReason = "invalid_email"
)

// Result describes what happened to one event. Err carries the validation
// error for dropped events and the *DeliveryError for failed sends.
type Result struct {
	Outcome Outcome
	Reason  DropReason
	Err     error
}

type Dispatcher struct {
	sender   Sender
	template Template
	logger   *slog.Logger

	tracer        trace.Tracer
	meterProvider metric.MeterProvider
	dispatched    metric.Int64Counter
	sendDuration  metric.Float64Histogram
}

type Option func(*Dispatcher)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		d.tracer = tp.Tracer(instrumentationName)
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(d *Dispatcher) {
		d.meterProvider = mp
	}
}

func NewDispatcher(sender Sender, template Template, logger *slog.Logger, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		sender:        sender,
		template:      template,
		logger:        logger,
		tracer:        otel.Tracer(instrumentationName),
		meterProvider: otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(d)
	}

	meter := d.meterProvider.Meter(instrumentationName)

	var err error
	d.dispatched, err = meter.Int64Counter("notifications.dispatched",
		metric.WithDescription("Order placed events processed, by outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	d.sendDuration, err = meter.Float64Histogram("notifications.send.duration",
		metric.WithDescription("Time spent in a single email send attempt"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Handle decodes a raw order-placed payload and dispatches it. Only delivery
// failures are returned; undecodable payloads are dropped like any other
// invalid event.
func (d *Dispatcher) Handle(ctx context.Context, payload []byte) error {
	var event *domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		d.logger.Error("failed to decode order placed event", "error", err, "payload_size", len(payload))
		d.record(ctx, OutcomeDropped, DropReasonMalformedPayload)
		return nil
	}

	_, err := d.Dispatch(ctx, event)
	return err
}

// Dispatch validates event, renders the confirmation email and sends it once.
// The returned error is non-nil only for delivery failures.
func (d *Dispatcher) Dispatch(ctx context.Context, event *domain.OrderPlacedEvent) (Result, error) {
	ctx, span := d.tracer.Start(ctx, "dispatch order-placed",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	d.logger.Info("received order placed event", "event", eventLogValue(event))
	if event != nil {
		span.SetAttributes(attribute.String("order.number", event.OrderNumber))
	}

	valid, err := ValidateEvent(event)
	if err != nil {
		reason := DropReasonInvalidEvent
		if errors.Is(err, ErrInvalidEmail) {
			reason = DropReasonInvalidEmail
		}

		d.logger.Error("dropping order placed event", "error", err, "reason", reason, "event", eventLogValue(event))
		span.SetAttributes(
			attribute.String("notification.outcome", string(OutcomeDropped)),
			attribute.String("notification.drop_reason", string(reason)),
		)
		d.record(ctx, OutcomeDropped, reason)
		return Result{Outcome: OutcomeDropped, Reason: reason, Err: err}, nil
	}

	msg := d.template.Render(valid)

	start := time.Now()
	err = d.sender.Send(ctx, msg)
	d.sendDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		d.logger.Error("error occurred while sending email", "error", err, "order_number", valid.OrderNumber)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("notification.outcome", string(OutcomeDeliveryFailed)))
		d.record(ctx, OutcomeDeliveryFailed, "")

		derr := &DeliveryError{OrderNumber: valid.OrderNumber, Err: err}
		return Result{Outcome: OutcomeDeliveryFailed, Err: derr}, derr
	}

	d.logger.Info("order notification email sent", "order_number", valid.OrderNumber)
	span.SetAttributes(attribute.String("notification.outcome", string(OutcomeSent)))
	d.record(ctx, OutcomeSent, "")

	return Result{Outcome: OutcomeSent}, nil
}

func (d *Dispatcher) record(ctx context.Context, outcome Outcome, reason DropReason) {
	attrs := []attribute.KeyValue{attribute.String("outcome", string(outcome))}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", string(reason)))
	}
	d.dispatched.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func eventLogValue(event *domain.OrderPlacedEvent) slog.Value {
	if event == nil {
		return slog.StringValue("<nil>")
	}
	return event.LogValue()
}
