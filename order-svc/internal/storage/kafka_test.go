package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"table-ordering/order-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	messages chan kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case msg := <-r.messages:
		return msg, nil
	}
}

func (r *fakeReader) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &KafkaPublisher{writer: writer}

	event := domain.OrderEvent{
		Type:        domain.OrderEventSaved,
		OrderID:     "o-1",
		TableNumber: 5,
		Status:      domain.StatusPending,
		Timestamp:   time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "o-1", string(writer.messages[0].Key))

	var decoded domain.OrderEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, event, decoded)

	writer.err = errors.New("broker down")
	assert.ErrorContains(t, publisher.Publish(context.Background(), event), "broker down")
}

func TestKafkaFeed_Listen(t *testing.T) {
	reader := &fakeReader{messages: make(chan kafka.Message, 3)}
	feed := &KafkaFeed{reader: reader, logger: discardLogger()}

	reader.messages <- kafka.Message{Value: []byte(`{"type":"order_saved","order_id":"o-1","status":"Pending"}`)}
	reader.messages <- kafka.Message{Value: []byte(`not json`)}
	reader.messages <- kafka.Message{Value: []byte(`{"type":"order_status_updated","order_id":"o-1","status":"Preparing"}`)}

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan domain.OrderEvent, 3)
	done := make(chan error, 1)
	go func() {
		done <- feed.Listen(ctx, func(event domain.OrderEvent) { received <- event })
	}()

	first := <-received
	second := <-received
	assert.Equal(t, domain.StatusPending, first.Status)
	assert.Equal(t, domain.StatusPreparing, second.Status)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}

func TestKafkaNotifier_Notify(t *testing.T) {
	writer := &fakeWriter{}
	notifier := &KafkaNotifier{writer: writer, logger: discardLogger(), Timeout: time.Second}

	notifier.Notify(domain.Notification{Title: "Your Order Is Ready!", Body: "Table 4 - Your order is ready and waiting."})
	require.NoError(t, notifier.Close())

	require.Len(t, writer.messages, 1)
	assert.True(t, writer.closed)
	assert.Contains(t, string(writer.messages[0].Value), `"title":"Your Order Is Ready!"`)
}

func TestKafkaNotifier_FailureIsSwallowed(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	notifier := &KafkaNotifier{writer: writer, logger: discardLogger(), Timeout: time.Second}

	assert.NotPanics(t, func() {
		notifier.Notify(domain.Notification{Title: "Order Status Updated"})
	})
	require.NoError(t, notifier.Close())
	assert.Empty(t, writer.messages)
}
