package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"property-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. The consumer itself decides how to
// ack/nack based on the returned error and the retry configuration.
type MessageHandler func(delivery amqp.Delivery) error

// DistributingConsumer runs every delivery in its own goroutine.
type DistributingConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}

	return &DistributingConsumer{
		baseConsumer: bc,
		handler:      handler,
	}, nil
}

// StartConsuming blocks until the context is cancelled or the connection is
// closed by the broker.
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	if c.baseConsumer.channel == nil || c.baseConsumer.connection == nil || c.baseConsumer.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected")
	}

	msgs, err := c.baseConsumer.channel.Consume(
		c.baseConsumer.actualQueueName,
		c.baseConsumer.config.ConsumerTag,
		false, // auto-ack
		c.baseConsumer.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing Consumer %s: failed to register a consumer on queue '%s': %w",
			c.baseConsumer.config.ConsumerTag, c.baseConsumer.actualQueueName, err)
	}

	c.baseConsumer.Logger.Info("[*] Waiting for messages on queue", "queue_name", c.baseConsumer.actualQueueName)

	go func() {
		for {
			// Priority check so a cancelled consumer never picks up new work.
			select {
			case <-ctx.Done():
				c.baseConsumer.Logger.Info("Context cancelled for consumer. Exiting consumption loop.",
					"consumer_tag", c.baseConsumer.config.ConsumerTag)
				return
			default:
			}

			select {
			case <-ctx.Done():
				c.baseConsumer.Logger.Info("Context cancelled for consumer. Exiting consumption loop.",
					"consumer_tag", c.baseConsumer.config.ConsumerTag)
				return

			case d, ok := <-msgs:
				if !ok {
					c.baseConsumer.Logger.Info("Deliveries channel closed by RabbitMQ. Exiting loop.",
						"consumer_tag", c.baseConsumer.config.ConsumerTag)
					return
				}

				c.baseConsumer.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer c.baseConsumer.wg.Done()
					c.process(delivery)
				}(d)
			}
		}
	}()

	notifyClose := make(chan *amqp.Error)
	c.baseConsumer.connection.NotifyClose(notifyClose)

	select {
	case <-ctx.Done():
		c.baseConsumer.Logger.Info("Context cancelled. Shutting down consumer.",
			"consumer_tag", c.baseConsumer.config.ConsumerTag)
		return nil

	case err := <-notifyClose:
		c.baseConsumer.Logger.Error(err, "Connection closed for consumer.",
			"consumer_tag", c.baseConsumer.config.ConsumerTag)
		return err
	}
}

func (c *DistributingConsumer) process(delivery amqp.Delivery) {
	processErr := c.handler(delivery)
	if processErr == nil {
		_ = delivery.Ack(false)
		return
	}

	c.baseConsumer.Logger.Error(processErr, "Handler error for message",
		"consumer_tag", c.baseConsumer.config.ConsumerTag,
		"delivery_tag", delivery.DeliveryTag)

	if !c.baseConsumer.config.EnableRetryMechanism {
		_ = delivery.Nack(false, false)
		return
	}

	deathCount := c.baseConsumer.getDeathCount(delivery, c.baseConsumer.actualQueueName)
	if deathCount < int64(c.baseConsumer.config.MaxRetries) {
		// Nack without requeue dead-letters into the retry cycle.
		c.baseConsumer.Logger.Info("Retrying message",
			"delivery_tag", delivery.DeliveryTag,
			"death_count", deathCount)
		_ = delivery.Nack(false, false)
		return
	}

	c.baseConsumer.Logger.Info("Max retries reached. Publishing to final DLX.",
		"delivery_tag", delivery.DeliveryTag)

	err := c.baseConsumer.finalDlxPublisher.Publish(
		context.Background(),
		c.baseConsumer.config.FinalDLQRoutingKey,
		amqp.Publishing{
			ContentType:  delivery.ContentType,
			Body:         delivery.Body,
			Headers:      delivery.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		c.baseConsumer.Logger.Error(err, "Failed to publish to final DLX. Nacking to retry the cycle.",
			"delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, false)
		return
	}
	_ = delivery.Ack(false)
}

func (c *DistributingConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")
	return c.baseConsumer.Close()
}
