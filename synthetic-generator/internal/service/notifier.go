package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aurora-server/synthetic-generator/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpProgressNotifier публикует события прогресса в очередь RabbitMQ, чтобы
// админка могла показывать живой лог генерации.
type amqpProgressNotifier struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewAMQPProgressNotifier creates a ProgressSink that publishes events to
// RabbitMQ. The channel is assumed open; closing it is the caller's concern
// (main.go).
func NewAMQPProgressNotifier(ch *amqp.Channel, cfg *config.Config, logger *zap.Logger) (ProgressSink, error) {
	queueName := cfg.ProgressQueueName

	_, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось объявить очередь прогресса '%s': %w", queueName, err)
	}

	return &amqpProgressNotifier{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("AMQPProgress"),
	}, nil
}

// Publish sends the event as JSON. Delivery errors are logged and swallowed: a
// broken progress stream must never fail the batch.
func (n *amqpProgressNotifier) Publish(ctx context.Context, event ProgressEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to serialize progress event", zap.Error(err))
		return
	}

	err = n.channel.PublishWithContext(ctx,
		"", // default exchange
		n.queueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        "synthetic-generator",
			MessageId:    fmt.Sprintf("%s-%d-%s", event.BatchID, event.Item, event.Step),
		},
	)
	if err != nil {
		n.logger.Warn("Failed to publish progress event", zap.Error(err),
			zap.String("batchID", event.BatchID.String()), zap.Int("item", event.Item))
	}
}
