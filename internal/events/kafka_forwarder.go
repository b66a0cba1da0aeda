package events

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaForwarder publishes order events to a Kafka topic, keyed by order id so
// every event of one order lands on the same partition.
type KafkaForwarder struct {
	writer MessageWriter
	logger *zap.Logger
}

// NewKafkaForwarder builds a forwarder.
func NewKafkaForwarder(writer MessageWriter, logger *zap.Logger) *KafkaForwarder {
	return &KafkaForwarder{writer: writer, logger: logger}
}

// Register subscribes the forwarder to every order event.
func (f *KafkaForwarder) Register(dispatcher Dispatcher) {
	if f == nil || f.writer == nil || dispatcher == nil {
		return
	}
	for _, eventType := range OrderEventTypes {
		dispatcher.Subscribe(eventType, f.Forward)
	}
}

// Forward writes one event.
func (f *KafkaForwarder) Forward(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
		Time: event.Timestamp,
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		f.logger.Warn("kafka forward failed",
			zap.String("event_type", string(event.Type)),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return errors.Wrap(err, "write event")
	}
	return nil
}
