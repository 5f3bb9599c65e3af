package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier tells a human about a new subscriber.
type Notifier interface {
	NotifyNewSubscriber(ctx context.Context, event SubscribedEvent) error
}

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier Notifier
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier Notifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{Channel: ch, Notifier: notifier, Logger: logger.Named("worker")}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	w.Logger.Info("waiting for messages", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event SubscribedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.Email == "" {
		w.Logger.Error("dropping malformed message", zap.Error(err), zap.String("message_id", d.MessageId))
		d.Nack(false, false)
		return
	}

	if err := w.Notifier.NotifyNewSubscriber(ctx, event); err != nil {
		w.Logger.Error("notification failed",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		d.Nack(false, false)
		return
	}

	w.Logger.Info("subscriber notification sent", zap.String("event_id", event.ID))
	d.Ack(false)
}
