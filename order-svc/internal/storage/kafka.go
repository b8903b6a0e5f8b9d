package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"table-ordering/order-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

const (
	OrderEventsTopic   = "order-events"
	NotificationsTopic = "notifications"

	defaultNotifyTimeout = 5 * time.Second
	readRetryDelay       = time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaPublisher emits order change events keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to emit kafka message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaFeed consumes order change events until its context is cancelled.
type KafkaFeed struct {
	reader messageReader
	logger *slog.Logger
}

func NewKafkaFeed(reader *kafka.Reader, logger *slog.Logger) *KafkaFeed {
	return &KafkaFeed{reader: reader, logger: logger}
}

func (f *KafkaFeed) Listen(ctx context.Context, handle func(domain.OrderEvent)) error {
	f.logger.Info("listening for order events")
	for {
		message, err := f.reader.ReadMessage(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			f.logger.Warn("read order event", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(readRetryDelay):
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			f.logger.Warn("decode order event", slog.Any("error", err), slog.Int64("offset", message.Offset))
			continue
		}
		handle(event)
	}
}

func (f *KafkaFeed) Close() error {
	return f.reader.Close()
}

// KafkaNotifier delivers notifications without blocking the caller.
// Delivery failures are logged and dropped.
type KafkaNotifier struct {
	writer  messageWriter
	logger  *slog.Logger
	Timeout time.Duration
	wg      sync.WaitGroup
}

func NewKafkaNotifier(writer *kafka.Writer, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, logger: logger, Timeout: defaultNotifyTimeout}
}

func (n *KafkaNotifier) Notify(notification domain.Notification) {
	value, err := json.Marshal(notification)
	if err != nil {
		n.logger.Error("encode notification", slog.Any("error", err))
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
		defer cancel()

		if err := n.writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
			n.logger.Warn("notification dropped",
				slog.String("title", notification.Title),
				slog.Any("error", err))
		}
	}()
}

// Close waits for in-flight deliveries before closing the writer.
func (n *KafkaNotifier) Close() error {
	n.wg.Wait()
	return n.writer.Close()
}

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(notification domain.Notification) {
	n.logger.Info("notification",
		slog.String("title", notification.Title),
		slog.String("body", notification.Body))
}
