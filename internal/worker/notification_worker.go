package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/events"
	"github.com/spec-kit/grocery-service/internal/service"
)

// StartNotificationWorker registers the in-process subscribers: notification
// stubs always, and the Kafka forwarder when a writer is configured.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, writer events.MessageWriter, logger *zap.Logger) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if writer != nil {
		events.NewKafkaForwarder(writer, logger).Register(dispatcher)
		logger.Info("order events forwarded to kafka")
	}
}
