package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"property-service/internal/contextkeys"
	"property-service/internal/contracts"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/port/usecases_port"
	"property-service/pkg/rabbitmq/rabbitmq_common"
	"property-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// upsertEventDTO matches the property-upsert/v1 contract.
type upsertEventDTO struct {
	EventType    string           `json:"event_type"`
	EventVersion string           `json:"event_version"`
	OccurredAt   *time.Time       `json:"occurred_at,omitempty"`
	Payload      upsertPayloadDTO `json:"payload"`
}

type upsertPayloadDTO struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PropertyType string     `json:"property_type"`
	ListingType  string     `json:"listing_type"`
	Status       string     `json:"status"`
	Price        float64    `json:"price"`
	Area         float64    `json:"area"`
	Bedrooms     int        `json:"bedrooms"`
	Bathrooms    int        `json:"bathrooms"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	ZipCode      string     `json:"zip_code"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	HasPool      bool       `json:"has_pool"`
	HasGarage    bool       `json:"has_garage"`
	HasGarden    bool       `json:"has_garden"`
	HasBalcony   bool       `json:"has_balcony"`
	HasParking   bool       `json:"has_parking"`
	IsFurnished  bool       `json:"is_furnished"`
	IsActive     bool       `json:"is_active"`
	IsFeatured   bool       `json:"is_featured"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (p upsertPayloadDTO) toDomain() domain.PropertyRecord {
	record := domain.PropertyRecord{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: p.PropertyType,
		ListingType:  p.ListingType,
		Status:       p.Status,
		Price:        p.Price,
		Area:         p.Area,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		HasPool:      p.HasPool,
		HasGarage:    p.HasGarage,
		HasGarden:    p.HasGarden,
		HasBalcony:   p.HasBalcony,
		HasParking:   p.HasParking,
		IsFurnished:  p.IsFurnished,
		IsActive:     p.IsActive,
		IsFeatured:   p.IsFeatured,
	}
	if p.ExpiresAt != nil {
		record.ExpiresAt = *p.ExpiresAt
	}
	return record
}

// PropertyUpsertsConsumerAdapter listens on the upserts queue, validates
// each message against the contract, and drives the upsert use case. Failed
// messages go through the retry cycle and end up in the final DLQ.
type PropertyUpsertsConsumerAdapter struct {
	consumer *rabbitmq_consumer.DistributingConsumer
	useCase  usecases_port.UpsertPropertyUseCasePort
	logger   port.LoggerPort
}

func NewPropertyUpsertsConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.UpsertPropertyUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*PropertyUpsertsConsumerAdapter, error) {
	adapter := &PropertyUpsertsConsumerAdapter{
		useCase: useCase,
		logger:  logger.WithFields(port.Fields{"component": "property_upserts_consumer"}),
	}

	consumerCfg.Logger = NewPkgLoggerBridge(adapter.logger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for property upserts: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func (a *PropertyUpsertsConsumerAdapter) messageHandler(delivery amqp.Delivery) error {
	traceID, _ := delivery.Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{"trace_id": traceID})
	ctx := contextkeys.ContextWithLogger(context.Background(), msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	if err := contracts.ValidateEvent("PropertyUpsertEvent", "1.0.0", delivery.Body); err != nil {
		msgLogger.Error("Upsert message failed contract validation", err, nil)
		return err
	}

	var event upsertEventDTO
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		return fmt.Errorf("failed to decode upsert event: %w", err)
	}

	if err := a.useCase.Execute(ctx, event.Payload.toDomain()); err != nil {
		msgLogger.Error("Upsert use case failed", err, port.Fields{"property_id": event.Payload.ID.String()})
		return err
	}

	msgLogger.Info("Property upsert processed", port.Fields{"property_id": event.Payload.ID.String()})
	return nil
}

// Start blocks until the context is cancelled.
func (a *PropertyUpsertsConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *PropertyUpsertsConsumerAdapter) Close() error {
	return a.consumer.Close()
}
