package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/domain"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	boom := errors.New("boom")

	d.Subscribe(EventOrderPlaced, func(context.Context, Event) error { calls++; return boom })
	d.Subscribe(EventOrderPlaced, func(context.Context, Event) error { calls++; return nil })
	d.Subscribe(EventOrderDeleted, func(context.Context, Event) error { calls += 10; return nil })

	err := d.Publish(context.Background(), Event{Type: EventOrderPlaced})
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, boom)
}

func TestDispatcher_NoHandlers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventOrderPlaced}))
}

func TestKafkaForwarder_WritesKeyedJSON(t *testing.T) {
	writer := &recordingWriter{}
	d := NewInMemoryDispatcher()
	NewKafkaForwarder(writer, zap.NewNop()).Register(d)

	ts := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	err := d.Publish(context.Background(), Event{
		ID:        "evt-1",
		Type:      EventOrderStatusChanged,
		OrderID:   "order-1",
		Timestamp: ts,
		Payload: OrderStatusChangedPayload{
			OldStatus: domain.OrderStatusPlaced,
			NewStatus: domain.OrderStatusProcessing,
		},
	})
	require.NoError(t, err)
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.Equal(t, ts, msg.Time)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order_status_changed", decoded["type"])
	assert.Equal(t, "PROCESSING", decoded["payload"].(map[string]any)["new_status"])
}

func TestKafkaForwarder_SurfacesWriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	err := NewKafkaForwarder(writer, zap.NewNop()).Forward(context.Background(), Event{Type: EventOrderPlaced, OrderID: "o"})
	assert.Error(t, err)
}

func TestKafkaForwarder_NilWriterDoesNotSubscribe(t *testing.T) {
	d := NewInMemoryDispatcher()
	NewKafkaForwarder(nil, zap.NewNop()).Register(d)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventOrderPlaced}))
}
