package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/config"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/events"
	"github.com/spec-kit/grocery-service/internal/repository"
)

// NotificationChannel names an outbound delivery route.
type NotificationChannel string

const (
	ChannelEmail   NotificationChannel = "email"
	ChannelSMS     NotificationChannel = "sms"
	ChannelWebhook NotificationChannel = "webhook"
)

// Notification is one outbound message derived from an order event.
type Notification struct {
	Channel   NotificationChannel
	Recipient string
	OrderID   string
	Template  string
	Fields    map[string]any
}

// NotificationSender delivers notifications. Delivery itself is an external
// collaborator; the default sender only logs.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

// NotificationService turns order events into customer, rider and back-office notices.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	staff      repository.StaffRepository
	sender     NotificationSender
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	UserRepo   repository.UserRepository
	StaffRepo  repository.StaffRepository
	Sender     NotificationSender
	Logger     *zap.Logger
	Config     config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sender := deps.Sender
	if sender == nil {
		sender = logSender{logger: logger}
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		users:      deps.UserRepo,
		staff:      deps.StaffRepo,
		sender:     sender,
		logger:     logger,
		cfg:        deps.Config,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderPlaced, n.handleOrderPlaced)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderStatusChanged)
	n.dispatcher.Subscribe(events.EventOrderRiderAssigned, n.handleOrderRiderAssigned)
	n.dispatcher.Subscribe(events.EventOrderPaymentCollected, n.handleOrderPaymentCollected)
}

func (n *NotificationService) handleOrderPlaced(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderPlacedPayload)
	if !ok {
		return n.unexpectedPayload(event)
	}
	fields := map[string]any{"amount": payload.Amount.StringFixed(2), "item_count": payload.ItemCount}
	if err := n.notifyCustomer(ctx, event.OrderID, payload.UserID, payload.Phone, "order_confirmation", fields); err != nil {
		return err
	}
	return n.notifyBackOffice(ctx, event, fields)
}

// Customers hear about the hand-off to the rider and about final outcomes;
// intermediate warehouse states only reach the back office.
func (n *NotificationService) handleOrderStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderStatusChangedPayload)
	if !ok {
		return n.unexpectedPayload(event)
	}
	fields := map[string]any{"old_status": payload.OldStatus, "new_status": payload.NewStatus}
	if payload.NewStatus == domain.OrderStatusOutForDelivery || payload.NewStatus.IsTerminal() {
		template := "order_" + strings.ToLower(string(payload.NewStatus))
		if err := n.notifyCustomer(ctx, event.OrderID, payload.UserID, payload.Phone, template, fields); err != nil {
			return err
		}
	}
	return n.notifyBackOffice(ctx, event, fields)
}

func (n *NotificationService) handleOrderRiderAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderRiderAssignedPayload)
	if !ok {
		return n.unexpectedPayload(event)
	}
	fields := map[string]any{"customer_phone": payload.Phone}
	// Cash on delivery: the rider is told what to collect unless it is already paid.
	if !payload.Paid {
		fields["collect_amount"] = payload.Amount.StringFixed(2)
	}
	if err := n.notifyRider(ctx, event.OrderID, payload.RiderID, "rider_assignment", fields); err != nil {
		return err
	}
	if payload.OldRiderID != nil && *payload.OldRiderID != payload.RiderID {
		if err := n.notifyRider(ctx, event.OrderID, *payload.OldRiderID, "rider_unassigned", nil); err != nil {
			return err
		}
	}
	return nil
}

func (n *NotificationService) handleOrderPaymentCollected(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderPaymentCollectedPayload)
	if !ok {
		return n.unexpectedPayload(event)
	}
	return n.notifyBackOffice(ctx, event, map[string]any{"amount": payload.Amount.StringFixed(2)})
}

// notifyCustomer prefers email for registered customers when email is
// configured, then falls back to SMS on the order phone or the account phone.
func (n *NotificationService) notifyCustomer(ctx context.Context, orderID string, userID *string, phone, template string, fields map[string]any) error {
	var user *domain.User
	if userID != nil && n.users != nil {
		found, err := n.users.GetByID(ctx, *userID)
		if err != nil {
			n.logger.Warn("customer lookup failed", zap.String("order_id", orderID), zap.String("user_id", *userID), zap.Error(err))
		} else {
			user = found
		}
	}

	if user != nil && user.Email != "" && n.emailEnabled() {
		return n.sender.Send(ctx, Notification{Channel: ChannelEmail, Recipient: user.Email, OrderID: orderID, Template: template, Fields: fields})
	}
	if phone == "" && user != nil {
		phone = user.Phone
	}
	if phone == "" {
		n.logger.Debug("no customer contact, notification skipped", zap.String("order_id", orderID), zap.String("template", template))
		return nil
	}
	return n.sender.Send(ctx, Notification{Channel: ChannelSMS, Recipient: phone, OrderID: orderID, Template: template, Fields: fields})
}

func (n *NotificationService) notifyRider(ctx context.Context, orderID, riderID, template string, fields map[string]any) error {
	if n.staff == nil {
		return nil
	}
	rider, err := n.staff.GetByID(ctx, riderID)
	if err != nil {
		n.logger.Warn("rider lookup failed", zap.String("order_id", orderID), zap.String("rider_id", riderID), zap.Error(err))
		return nil
	}
	if rider.Phone == "" {
		n.logger.Debug("rider has no phone, notification skipped", zap.String("rider_id", riderID))
		return nil
	}
	return n.sender.Send(ctx, Notification{Channel: ChannelSMS, Recipient: rider.Phone, OrderID: orderID, Template: template, Fields: fields})
}

func (n *NotificationService) notifyBackOffice(ctx context.Context, event events.Event, fields map[string]any) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	return n.sender.Send(ctx, Notification{
		Channel:   ChannelWebhook,
		Recipient: url,
		OrderID:   event.OrderID,
		Template:  string(event.Type),
		Fields:    fields,
	})
}

func (n *NotificationService) emailEnabled() bool {
	return strings.TrimSpace(n.cfg.EmailFrom) != ""
}

func (n *NotificationService) unexpectedPayload(event events.Event) error {
	n.logger.Warn("unexpected event payload",
		zap.String("event_type", string(event.Type)),
		zap.String("order_id", event.OrderID),
		zap.Any("payload", event.Payload))
	return nil
}

type logSender struct {
	logger *zap.Logger
}

func (s logSender) Send(_ context.Context, n Notification) error {
	s.logger.Info("notification stub",
		zap.String("channel", string(n.Channel)),
		zap.String("recipient", n.Recipient),
		zap.String("order_id", n.OrderID),
		zap.String("template", n.Template),
		zap.Any("fields", n.Fields))
	return nil
}
