package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"property-service/internal/constants"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/pkg/rabbitmq/rabbitmq_common"
	"property-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// lifecycleEventDTO matches the property-lifecycle/v1 contract.
type lifecycleEventDTO struct {
	EventType    string     `json:"event_type"`
	EventVersion string     `json:"event_version"`
	Kind         string     `json:"kind"`
	PropertyID   *uuid.UUID `json:"property_id,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// PropertyEventsPublisherAdapter publishes lifecycle events to the events
// exchange for downstream consumers.
type PropertyEventsPublisherAdapter struct {
	publisher *rabbitmq_producer.Publisher
	logger    port.LoggerPort
}

func NewPropertyEventsPublisherAdapter(url string, logger port.LoggerPort, connManager *rabbitmq_common.ConnectionManager) (*PropertyEventsPublisherAdapter, error) {
	pkgLogger := logger.WithFields(port.Fields{"component": "property_events_publisher"})

	publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: url},
		ExchangeName:             constants.ExchangePropertyEvents,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   NewPkgLoggerBridge(pkgLogger),
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create lifecycle events publisher: %w", err)
	}

	return &PropertyEventsPublisherAdapter{
		publisher: publisher,
		logger:    pkgLogger,
	}, nil
}

// PublishLifecycleEvent sends one event. record is nil for batch kinds
// (renewed, expired), which describe a sweep rather than a single property.
func (a *PropertyEventsPublisherAdapter) PublishLifecycleEvent(ctx context.Context, kind string, record *domain.PropertyRecord) error {
	event := lifecycleEventDTO{
		EventType:    "PropertyLifecycleEvent",
		EventVersion: "1.0.0",
		Kind:         kind,
		OccurredAt:   time.Now().UTC(),
	}
	if record != nil {
		id := record.ID
		event.PropertyID = &id
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode lifecycle event: %w", err)
	}

	headers := amqp.Table{}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		headers["x-trace-id"] = traceID
	}

	err = a.publisher.Publish(ctx, constants.RoutingKeyPropertyLifecycle, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Headers:      headers,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("failed to publish lifecycle event '%s': %w", kind, err)
	}
	return nil
}

func (a *PropertyEventsPublisherAdapter) Close() error {
	return a.publisher.Close()
}
