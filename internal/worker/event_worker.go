package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/St1cky1/task-registry/internal/infrastructure/client"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 5 * time.Second

// EventHandler обрабатывает декодированное событие; ошибка возвращает сообщение в очередь
type EventHandler func(ctx context.Context, event *entity.TaskEvent) error

// EventWorker читает события задач из очереди RabbitMQ
type EventWorker struct {
	url     string
	queue   string
	handler EventHandler
}

func NewEventWorker(url string, queue string, handler EventHandler) *EventWorker {
	if handler == nil {
		handler = LogEvent
	}
	return &EventWorker{
		url:     url,
		queue:   queue,
		handler: handler,
	}
}

// Start блокируется до отмены ctx, при обрыве соединения переподключается
func (w *EventWorker) Start(ctx context.Context) {
	for {
		err := w.runWorker(ctx)
		if ctx.Err() != nil {
			slog.Info("event worker stopped")
			return
		}

		slog.Error("event worker failed, reconnecting",
			slog.Any("error", err),
			slog.Duration("delay", reconnectDelay))

		select {
		case <-ctx.Done():
			slog.Info("event worker stopped")
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (w *EventWorker) runWorker(ctx context.Context) error {
	conn, err := amqp.Dial(w.url)
	if err != nil {
		return errors.Wrap(err, "could not dial rabbitmq")
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "could not open channel")
	}
	defer channel.Close()

	if _, err := client.DeclareEventQueue(channel, w.queue); err != nil {
		return err
	}

	msgs, err := channel.Consume(
		w.queue,        // queue
		"event_worker", // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return errors.Wrap(err, "could not start consumer")
	}

	slog.Info("event worker started", slog.String("queue", w.queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.processMessage(ctx, msg)
		}
	}
}

func (w *EventWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event entity.TaskEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		slog.ErrorContext(ctx, "could not decode task event", slog.Any("error", err), slog.String("body", string(msg.Body)))
		// Не возвращаем в очередь
		if err := msg.Nack(false, false); err != nil {
			slog.ErrorContext(ctx, "could not nack message", slog.Any("error", err))
		}
		return
	}

	if err := w.handler(ctx, &event); err != nil {
		slog.ErrorContext(ctx, "could not handle task event", slog.Any("error", err))
		// Возвращаем в очередь для повторной обработки
		if err := msg.Nack(false, true); err != nil {
			slog.ErrorContext(ctx, "could not nack message", slog.Any("error", err))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		slog.ErrorContext(ctx, "could not ack message", slog.Any("error", err))
	}
}

// LogEvent - обработчик по умолчанию, пишет событие в журнал
func LogEvent(ctx context.Context, event *entity.TaskEvent) error {
	attrs := []any{
		slog.String("action", string(event.Action)),
		slog.String("task_id", event.TaskID.String()),
		slog.Time("timestamp", event.Timestamp),
	}
	if len(event.Changes) > 0 {
		attrs = append(attrs, slog.Any("changes", event.Changes))
	}

	slog.InfoContext(ctx, "task event", attrs...)
	return nil
}
