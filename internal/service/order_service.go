package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/events"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// OrderService creates orders from carts and serves ledger reads.
type OrderService struct {
	orders      repository.OrderRepository
	carts       repository.CartRepository
	products    repository.ProductRepository
	promos      *PromoService
	tx          repository.Transactor
	guard       repository.CheckoutGuard
	publisher   eventPublisher
	logger      *zap.Logger
	deliveryFee decimal.Decimal
	lockTTL     time.Duration
	listLimit   int
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo    repository.OrderRepository
	CartRepo     repository.CartRepository
	ProductRepo  repository.ProductRepository
	Promos       *PromoService
	Transactor   repository.Transactor
	Guard        repository.CheckoutGuard
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	DeliveryFee  decimal.Decimal
	CheckoutLock time.Duration
	ListLimit    int
}

// PlaceOrderInput describes a checkout. Actor is nil for guest checkout, in
// which case Items carries the client cart and Phone is mandatory.
type PlaceOrderInput struct {
	Actor          *domain.Actor
	Items          []domain.CartLine
	Address        domain.Address
	Phone          string
	PromoCode      string
	IdempotencyKey string
}

// OrderListFilter describes listing parameters.
type OrderListFilter struct {
	Statuses    []domain.OrderStatus
	Payment     *bool
	UserID      *string
	RiderID     *string
	Phone       *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lockTTL := deps.CheckoutLock
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	listLimit := deps.ListLimit
	if listLimit <= 0 {
		listLimit = 50
	}
	return &OrderService{
		orders:      deps.OrderRepo,
		carts:       deps.CartRepo,
		products:    deps.ProductRepo,
		promos:      deps.Promos,
		tx:          deps.Transactor,
		guard:       deps.Guard,
		publisher:   newEventPublisher(deps.Dispatcher, logger),
		logger:      logger,
		deliveryFee: deps.DeliveryFee,
		lockTTL:     lockTTL,
		listLimit:   listLimit,
	}
}

// Place snapshots the cart at current catalog prices into a new order. The
// order insert, its history entry and the cart clear commit together.
func (s *OrderService) Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	guest := input.Actor == nil
	if !guest && input.Actor.Role != domain.RoleCustomer {
		return nil, apperrors.NewForbidden("only customers place orders")
	}
	phone := strings.TrimSpace(input.Phone)
	if err := validateCheckout(guest, phone, input.Address); err != nil {
		return nil, err
	}

	var guestCart domain.Cart
	if guest {
		cart, err := domain.NewCart(input.Items)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid cart items", map[string]any{"error": err.Error()})
		}
		if cart.IsEmpty() {
			return nil, apperrors.NewValidationError("cart is empty", nil)
		}
		guestCart = cart
	}

	var promo *domain.PromoCode
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		resolved, err := s.promos.resolve(ctx, code)
		if err != nil {
			return nil, err
		}
		promo = resolved
	}

	release, err := s.acquireCheckout(ctx, checkoutKey(input, phone))
	if err != nil {
		return nil, err
	}
	defer release()

	order := &domain.Order{
		ID:            uuid.NewString(),
		Phone:         phone,
		Address:       input.Address,
		DeliveryFee:   s.deliveryFee,
		Discount:      decimal.Zero,
		Status:        domain.OrderStatusPlaced,
		Payment:       false,
		PaymentMethod: domain.PaymentMethodCOD,
	}
	if !guest {
		order.UserID = ptrString(input.Actor.ID)
	}

	err = s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
		cart := guestCart
		if !guest {
			stored, err := repos.Carts.Get(ctx, input.Actor.ID)
			if err != nil {
				return err
			}
			if stored.IsEmpty() {
				return apperrors.NewValidationError("cart is empty", nil)
			}
			cart = stored
		}

		lines, err := s.priceLines(ctx, cart)
		if err != nil {
			return err
		}
		order.Items = lines
		order.Subtotal = domain.OrderSubtotal(lines)
		if promo != nil {
			order.Discount = ApplyDiscount(order.Subtotal, promo.Value)
			order.PromoCode = ptrString(promo.Code)
		}
		order.Amount = domain.OrderAmount(order.Subtotal, order.DeliveryFee, order.Discount)

		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		entry := &domain.OrderHistory{
			OrderID:    order.ID,
			ChangeType: domain.ChangeTypePlaced,
			NewValue: map[string]any{
				"status": order.Status,
				"amount": order.Amount.String(),
			},
		}
		if !guest {
			entry.ChangedByID = ptrString(input.Actor.ID)
			role := input.Actor.Role
			entry.ChangedRole = &role
		}
		if err := repos.History.Create(ctx, entry); err != nil {
			return err
		}
		if !guest {
			return repos.Carts.Clear(ctx, input.Actor.ID)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publisher.publish(ctx, events.Event{
		Type:    events.EventOrderPlaced,
		OrderID: order.ID,
		Actor:   eventActor(input.Actor),
		Payload: events.OrderPlacedPayload{
			UserID:    order.UserID,
			Phone:     order.Phone,
			Amount:    order.Amount,
			ItemCount: len(order.Items),
			PromoCode: order.PromoCode,
		},
	})
	return order, nil
}

// List returns orders visible to actor. Riders only see their own assignments
// and customers only their own orders, whatever the filter says.
func (s *OrderService) List(ctx context.Context, actor domain.Actor, filter OrderListFilter) ([]domain.Order, error) {
	repoFilter := repository.OrderFilter{
		Statuses:    filter.Statuses,
		Payment:     filter.Payment,
		UserID:      filter.UserID,
		RiderID:     filter.RiderID,
		Phone:       filter.Phone,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	switch {
	case auth.HasPermission(actor.Role, auth.ActionViewOrders):
	case auth.HasPermission(actor.Role, auth.ActionRiderOrders):
		repoFilter.RiderID = ptrString(actor.ID)
	case actor.Role == domain.RoleCustomer:
		repoFilter.UserID = ptrString(actor.ID)
		repoFilter.RiderID = nil
	default:
		return nil, apperrors.NewForbidden("role may not list orders")
	}
	if repoFilter.Limit <= 0 || repoFilter.Limit > s.listLimit {
		repoFilter.Limit = s.listLimit
	}

	orders, err := s.orders.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// Get fetches an order the actor may see.
func (s *OrderService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case auth.HasPermission(actor.Role, auth.ActionViewOrders):
		return order, nil
	case auth.HasPermission(actor.Role, auth.ActionRiderOrders):
		if !order.AssignedTo(actor.ID) {
			return nil, apperrors.NewForbidden("order is not assigned to this rider")
		}
		return order, nil
	case actor.Role == domain.RoleCustomer:
		if order.UserID == nil || *order.UserID != actor.ID {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": id})
		}
		return order, nil
	default:
		return nil, apperrors.NewForbidden("role may not view orders")
	}
}

// Delete removes an order irreversibly. Carts and products are untouched.
func (s *OrderService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := auth.Authorize(actor.Role, auth.ActionManageOrders); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFound("order", map[string]any{"order_id": id})
		}
		return apperrors.MapError(err)
	}
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventOrderDeleted,
		OrderID: id,
		Actor:   eventActor(&actor),
	})
	return nil
}

// TrackGuest returns guest orders placed with exactly this phone number.
// It is a lookup convenience, not an authentication mechanism.
func (s *OrderService) TrackGuest(ctx context.Context, phone string) ([]domain.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.NewValidationError("phone is required", nil)
	}
	orders, err := s.orders.List(ctx, repository.OrderFilter{
		Phone:     &phone,
		GuestOnly: true,
		Limit:     s.listLimit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

func (s *OrderService) load(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

// priceLines freezes the current catalog price and name into each line.
// Stock is not checked or reserved.
func (s *OrderService) priceLines(ctx context.Context, cart domain.Cart) ([]domain.OrderLine, error) {
	products, err := s.products.GetByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	catalog := make(map[domain.ProductID]domain.Product, len(products))
	for _, product := range products {
		catalog[product.ID] = product
	}

	cartLines := cart.Lines()
	lines := make([]domain.OrderLine, 0, len(cartLines))
	for _, item := range cartLines {
		product, ok := catalog[item.ProductID]
		if !ok {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": item.ProductID})
		}
		if !product.OffersSize(item.Size) {
			return nil, apperrors.NewValidationError("size not offered", map[string]any{
				"product_id": item.ProductID,
				"size":       item.Size,
			})
		}
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      item.Size,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}
	return lines, nil
}

// acquireCheckout holds the per-owner guard for the duration of a placement.
// A Redis outage degrades to unguarded placement; the transaction still holds.
func (s *OrderService) acquireCheckout(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	if s.guard == nil || key == "" {
		return noop, nil
	}
	release, ok, err := s.guard.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.Warn("checkout guard unavailable", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, apperrors.NewValidationError("checkout already in progress", nil)
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("checkout guard release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func checkoutKey(input PlaceOrderInput, phone string) string {
	switch {
	case input.Actor != nil:
		return "user:" + input.Actor.ID
	case input.IdempotencyKey != "":
		return "guest:" + input.IdempotencyKey
	default:
		return "phone:" + phone
	}
}

func validateCheckout(guest bool, phone string, address domain.Address) error {
	missing := make([]string, 0, 4)
	if guest && phone == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(address.FullName) == "" {
		missing = append(missing, "address.full_name")
	}
	if strings.TrimSpace(address.Line1) == "" {
		missing = append(missing, "address.line1")
	}
	if strings.TrimSpace(address.City) == "" {
		missing = append(missing, "address.city")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required checkout fields", map[string]any{"fields": missing})
	}
	return nil
}
