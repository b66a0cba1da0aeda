package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/events"
	"github.com/spec-kit/grocery-service/internal/repository"
)

type fakeCartRepo struct {
	carts map[string]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]domain.Cart{}}
}

func (r *fakeCartRepo) cart(userID string) domain.Cart {
	cart, ok := r.carts[userID]
	if !ok {
		cart = domain.Cart{}
		r.carts[userID] = cart
	}
	return cart
}

func (r *fakeCartRepo) Get(_ context.Context, userID string) (domain.Cart, error) {
	return r.cart(userID).Clone(), nil
}

func (r *fakeCartRepo) Add(_ context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) error {
	return r.cart(userID).Add(productID, size, qty)
}

func (r *fakeCartRepo) Set(_ context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) error {
	return r.cart(userID).Set(productID, size, qty)
}

func (r *fakeCartRepo) Clear(_ context.Context, userID string) error {
	delete(r.carts, userID)
	return nil
}

type fakeProductRepo struct {
	products map[domain.ProductID]domain.Product
}

func (r *fakeProductRepo) GetByID(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &product, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []domain.ProductID) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

type fakePromoRepo struct {
	promos map[string]*domain.PromoCode
}

func newFakePromoRepo(promos ...domain.PromoCode) *fakePromoRepo {
	repo := &fakePromoRepo{promos: map[string]*domain.PromoCode{}}
	for i := range promos {
		promo := promos[i]
		repo.promos[promo.Code] = &promo
	}
	return repo
}

func (r *fakePromoRepo) Create(_ context.Context, promo *domain.PromoCode) error {
	if _, ok := r.promos[promo.Code]; ok {
		return repository.ErrDuplicate
	}
	promo.ID = uuid.NewString()
	stored := *promo
	r.promos[promo.Code] = &stored
	return nil
}

func (r *fakePromoRepo) GetByCode(_ context.Context, code string) (*domain.PromoCode, error) {
	promo, ok := r.promos[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *promo
	return &out, nil
}

func (r *fakePromoRepo) List(_ context.Context) ([]domain.PromoCode, error) {
	out := make([]domain.PromoCode, 0, len(r.promos))
	for _, promo := range r.promos {
		out = append(out, *promo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakePromoRepo) SetActive(_ context.Context, code string, active bool) error {
	promo, ok := r.promos[code]
	if !ok {
		return pgx.ErrNoRows
	}
	promo.Active = active
	return nil
}

func (r *fakePromoRepo) Delete(_ context.Context, code string) error {
	if _, ok := r.promos[code]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.promos, code)
	return nil
}

type fakeOrderRepo struct {
	orders map[string]domain.Order
	now    time.Time
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]domain.Order{},
		now:    time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
}

func copyOrder(order domain.Order) domain.Order {
	order.Items = append([]domain.OrderLine(nil), order.Items...)
	return order
}

func (r *fakeOrderRepo) put(order domain.Order) {
	r.orders[order.ID] = copyOrder(order)
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	order.CreatedAt = r.now
	order.UpdatedAt = r.now
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
	}
	r.put(*order)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := copyOrder(order)
	return &out, nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	out := []domain.Order{}
	for _, order := range r.orders {
		if filter.UserID != nil && (order.UserID == nil || *order.UserID != *filter.UserID) {
			continue
		}
		if filter.RiderID != nil && !order.AssignedTo(*filter.RiderID) {
			continue
		}
		if filter.Phone != nil && order.Phone != *filter.Phone {
			continue
		}
		if filter.GuestOnly && !order.IsGuest() {
			continue
		}
		out = append(out, copyOrder(order))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.List(ctx, repository.OrderFilter{})
}

func (r *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = order.Status
	stored.Payment = order.Payment
	stored.RiderID = order.RiderID
	r.orders[order.ID] = stored
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.orders, id)
	return nil
}

type fakeHistoryRepo struct {
	entries []domain.OrderHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, history *domain.OrderHistory) error {
	history.ID = uuid.NewString()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) ListByOrder(_ context.Context, orderID string) ([]domain.OrderHistory, error) {
	var out []domain.OrderHistory
	for _, entry := range r.entries {
		if entry.OrderID == orderID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeStaffRepo struct {
	staff map[string]domain.StaffMember
}

func newFakeStaffRepo(members ...domain.StaffMember) *fakeStaffRepo {
	repo := &fakeStaffRepo{staff: map[string]domain.StaffMember{}}
	for _, member := range members {
		repo.staff[member.ID] = member
	}
	return repo
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	for _, existing := range r.staff {
		if existing.Email == staff.Email {
			return repository.ErrDuplicate
		}
	}
	staff.ID = uuid.NewString()
	r.staff[staff.ID] = *staff
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	if _, ok := r.staff[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.staff[staff.ID] = *staff
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	staff, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &staff, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, staff := range r.staff {
		if staff.Email == email {
			out := staff
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	var out []domain.StaffMember
	for _, staff := range r.staff {
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && staff.Active != *filter.Active {
			continue
		}
		out = append(out, staff)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStaffRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.staff[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.staff, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// fakeTransactor hands out the same in-memory repos; the tests only need the
// call shape, not rollback.
type fakeTransactor struct {
	repos repository.TxRepos
	calls int
}

func (t *fakeTransactor) WithinTx(_ context.Context, fn func(repository.TxRepos) error) error {
	t.calls++
	return fn(t.repos)
}

type fakeGuard struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{held: map[string]bool{}}
}

func (g *fakeGuard) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, false, g.err
	}
	if g.held[key] {
		return nil, false, nil
	}
	g.held[key] = true
	return func(context.Context) error {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.held, key)
		return nil
	}, true, nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		out = append(out, event.Type)
	}
	return out
}
