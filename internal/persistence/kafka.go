package persistence

import (
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/config"
)

// NewKafkaWriter builds a synchronous writer for the order event topic.
// It returns nil when no brokers are configured.
func NewKafkaWriter(cfg config.NotificationConfig, logger *zap.Logger) *kafka.Writer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set; order events stay in-process")
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		MaxAttempts:  3,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Sugar().Errorf("kafka writer: "+msg, args...)
		}),
	}
	logger.Info("kafka writer configured",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic))
	return writer
}
