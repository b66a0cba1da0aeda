package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/events"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// FulfillmentService drives status, payment and rider changes on placed orders.
type FulfillmentService struct {
	orders    repository.OrderRepository
	staff     repository.StaffRepository
	history   repository.OrderHistoryRepository
	tx        repository.Transactor
	publisher eventPublisher
	logger    *zap.Logger
}

// FulfillmentDependencies bundles repositories.
type FulfillmentDependencies struct {
	OrderRepo   repository.OrderRepository
	StaffRepo   repository.StaffRepository
	HistoryRepo repository.OrderHistoryRepository
	Transactor  repository.Transactor
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewFulfillmentService creates the service.
func NewFulfillmentService(deps FulfillmentDependencies) *FulfillmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FulfillmentService{
		orders:    deps.OrderRepo,
		staff:     deps.StaffRepo,
		history:   deps.HistoryRepo,
		tx:        deps.Transactor,
		publisher: newEventPublisher(deps.Dispatcher, logger),
		logger:    logger,
	}
}

// SetStatus changes the fulfillment state. Order managers may set any status.
// A rider may set any of the delivery statuses on their own order, in any
// order; moves outside the lifecycle are logged, not rejected.
func (s *FulfillmentService) SetStatus(ctx context.Context, actor domain.Actor, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown order status", map[string]any{"status": status})
	}
	manager, err := requireOrderActor(actor)
	if err != nil {
		return nil, err
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !manager {
		if !order.AssignedTo(actor.ID) {
			return nil, apperrors.NewForbidden("order is not assigned to this rider")
		}
		if !domain.IsRiderStatus(status) {
			return nil, apperrors.NewInvalidTransition("rider may not set this status", map[string]any{
				"from": order.Status,
				"to":   status,
			})
		}
	}

	oldStatus := order.Status
	if oldStatus == status {
		return order, nil
	}
	if !domain.CanTransition(oldStatus, status) {
		s.logger.Info("status set outside delivery lifecycle",
			zap.String("order_id", order.ID),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(status)),
			zap.String("actor_role", string(actor.Role)))
	}
	order.Status = status
	if err := s.persist(ctx, actor, order, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": status},
	); err != nil {
		return nil, err
	}
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: order.ID,
		Actor:   eventActor(&actor),
		Payload: events.OrderStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			UserID:    order.UserID,
			Phone:     order.Phone,
		},
	})
	return order, nil
}

// SetPayment records cash collection. Payment never goes back from true to false.
func (s *FulfillmentService) SetPayment(ctx context.Context, actor domain.Actor, orderID string, paid bool) (*domain.Order, error) {
	manager, err := requireOrderActor(actor)
	if err != nil {
		return nil, err
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !manager && !order.AssignedTo(actor.ID) {
		return nil, apperrors.NewForbidden("order is not assigned to this rider")
	}
	if order.Payment && !paid {
		return nil, apperrors.NewInvalidTransition("collected payment cannot be reverted", map[string]any{"order_id": orderID})
	}
	if order.Payment == paid {
		return order, nil
	}

	order.Payment = paid
	if err := s.persist(ctx, actor, order, domain.ChangeTypePayment,
		map[string]any{"payment": false},
		map[string]any{"payment": true},
	); err != nil {
		return nil, err
	}
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventOrderPaymentCollected,
		OrderID: order.ID,
		Actor:   eventActor(&actor),
		Payload: events.OrderPaymentCollectedPayload{Amount: order.Amount},
	})
	return order, nil
}

// AssignRider sets the rider and forces the order to SHIPPED, whatever its
// current status. This can move a delivered order back to SHIPPED.
func (s *FulfillmentService) AssignRider(ctx context.Context, actor domain.Actor, orderID, riderID string) (*domain.Order, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageOrders); err != nil {
		return nil, err
	}
	rider, err := s.staff.GetByID(ctx, riderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidationError("rider does not exist", map[string]any{"rider_id": riderID})
		}
		return nil, apperrors.MapError(err)
	}
	if rider.Role != domain.RoleDeliveryman || !rider.Active {
		return nil, apperrors.NewValidationError("rider must be an active deliveryman", map[string]any{"rider_id": riderID})
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	oldRider := order.RiderID
	oldStatus := order.Status
	order.RiderID = ptrString(rider.ID)
	order.Status = domain.OrderStatusShipped

	oldValue := map[string]any{"rider_id": oldRider, "status": oldStatus}
	newValue := map[string]any{"rider_id": rider.ID, "status": order.Status}
	if err := s.persist(ctx, actor, order, domain.ChangeTypeRider, oldValue, newValue); err != nil {
		return nil, err
	}
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventOrderRiderAssigned,
		OrderID: order.ID,
		Actor:   eventActor(&actor),
		Payload: events.OrderRiderAssignedPayload{
			OldRiderID: oldRider,
			RiderID:    rider.ID,
			OldStatus:  oldStatus,
			NewStatus:  order.Status,
			Phone:      order.Phone,
			Amount:     order.Amount,
			Paid:       order.Payment,
		},
	})
	return order, nil
}

// History returns the audit trail of an order.
func (s *FulfillmentService) History(ctx context.Context, actor domain.Actor, orderID string) ([]domain.OrderHistory, error) {
	if !auth.HasPermission(actor.Role, auth.ActionViewOrders) {
		if !auth.HasPermission(actor.Role, auth.ActionRiderOrders) {
			return nil, apperrors.NewForbidden("role may not view order history")
		}
		order, err := s.load(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.AssignedTo(actor.ID) {
			return nil, apperrors.NewForbidden("order is not assigned to this rider")
		}
	} else if _, err := s.load(ctx, orderID); err != nil {
		return nil, err
	}

	entries, err := s.history.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *FulfillmentService) load(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

// persist writes the order and its history entry in one transaction.
// Concurrent writers are not versioned; the last update wins.
func (s *FulfillmentService) persist(ctx context.Context, actor domain.Actor, order *domain.Order, change domain.OrderChangeType, oldValue, newValue map[string]any) error {
	role := actor.Role
	entry := &domain.OrderHistory{
		OrderID:     order.ID,
		ChangedByID: ptrString(actor.ID),
		ChangedRole: &role,
		ChangeType:  change,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	err := s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
		return repos.History.Create(ctx, entry)
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFound("order", map[string]any{"order_id": order.ID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// requireOrderActor reports whether actor manages any order (true) or is a
// rider restricted to their own assignments (false).
func requireOrderActor(actor domain.Actor) (bool, error) {
	switch {
	case auth.HasPermission(actor.Role, auth.ActionManageOrders):
		return true, nil
	case auth.HasPermission(actor.Role, auth.ActionRiderOrders):
		return false, nil
	default:
		return false, apperrors.NewForbidden("role may not change orders")
	}
}
