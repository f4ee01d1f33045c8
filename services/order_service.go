package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"veggie-shop/metrics"
	"veggie-shop/models"
	"veggie-shop/storage"
)

const notifyTimeout = 30 * time.Second

var paymentMethods = map[string]string{
	"card": "card",
	"upi":  "upi",
	"cod":  "cod",
	"cash": "cod",
}

// OrderNotifier tells a customer their order was received.
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// CatalogCache drops cached product listings.
type CatalogCache interface {
	InvalidateCache(ctx context.Context)
}

type OrderService struct {
	store     storage.Storage
	notifier  OrderNotifier
	publisher EventPublisher
	catalog   CatalogCache

	// tracks in-flight notifications so shutdown can drain them
	wg sync.WaitGroup
}

// NewOrderService builds the checkout service. notifier and publisher may be nil.
func NewOrderService(store storage.Storage, notifier OrderNotifier, publisher EventPublisher) *OrderService {
	return &OrderService{store: store, notifier: notifier, publisher: publisher}
}

// WithCatalogCache makes Place invalidate cached listings after stock moves.
func (s *OrderService) WithCatalogCache(c CatalogCache) *OrderService {
	s.catalog = c
	return s
}

func validatePlaceOrder(req *models.PlaceOrderRequest) error {
	v := NewValidationError()
	addr := &req.DeliveryAddress

	required := []struct {
		field, value, message string
	}{
		{"deliveryAddress.firstName", addr.FirstName, "First name is required"},
		{"deliveryAddress.lastName", addr.LastName, "Last name is required"},
		{"deliveryAddress.street", addr.Street, "Street address is required"},
		{"deliveryAddress.city", addr.City, "City is required"},
		{"deliveryAddress.state", addr.State, "State is required"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			v.Add(r.field, r.message)
		}
	}
	if !isPinCode(strings.TrimSpace(addr.PinCode)) {
		v.Add("deliveryAddress.pinCode", "PIN code must be 6 digits")
	}

	method, ok := paymentMethods[strings.ToLower(strings.TrimSpace(req.PaymentMethod))]
	if !ok {
		v.Add("paymentMethod", "Payment method must be one of card, upi, cod")
	}
	req.PaymentMethod = method
	return v.OrNil()
}

func isPinCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Place turns the caller's cart into an order. Totals are computed from
// current product prices while the store holds the cart, and the consumed
// lines are removed in the same step.
func (s *OrderService) Place(ctx context.Context, userID string, req models.PlaceOrderRequest) (*models.Order, error) {
	if err := validatePlaceOrder(&req); err != nil {
		return nil, err
	}

	a := req.DeliveryAddress
	header := models.Order{
		UserID: userID,
		Status: models.OrderStatusPending,
		DeliveryAddress: models.DeliveryAddress{
			FirstName: strings.TrimSpace(a.FirstName),
			LastName:  strings.TrimSpace(a.LastName),
			Street:    strings.TrimSpace(a.Street),
			City:      strings.TrimSpace(a.City),
			State:     strings.TrimSpace(a.State),
			PinCode:   strings.TrimSpace(a.PinCode),
		},
		DeliverySlot:  strings.TrimSpace(req.DeliverySlot),
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
	}

	order, err := s.store.PlaceOrderFromCart(ctx, userID, func(cart []models.CartItem) (models.Order, []models.OrderItem, error) {
		items, err := orderItemsFromCart(cart)
		if err != nil {
			return models.Order{}, nil, err
		}
		totals := CalculateTotals(cartLines(cart))
		o := header
		o.Subtotal = totals.Subtotal
		o.TaxAmount = totals.Tax
		o.DeliveryFee = totals.DeliveryFee
		o.TotalAmount = totals.Total
		return o, items, nil
	})
	if err != nil {
		return nil, err
	}

	// stock changed, so cached listings are stale
	if s.catalog != nil {
		s.catalog.InvalidateCache(ctx)
	}

	metrics.OrdersPlaced.WithLabelValues(order.PaymentMethod).Inc()
	metrics.OrderRevenue.Add(order.TotalAmount.InexactFloat64())
	log.Info().
		Str("order_id", order.ID).
		Str("user_id", userID).
		Int("items", len(order.OrderItems)).
		Str("total", order.TotalAmount.String()).
		Msg("order placed")

	s.afterPlace(ctx, order)
	return order, nil
}

func orderItemsFromCart(cart []models.CartItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(cart))
	unavailable := NewValidationError()
	for _, line := range cart {
		if line.Product == nil || !line.Product.IsActive {
			unavailable.Add("items", fmt.Sprintf("product %s is no longer available", line.ProductID))
			continue
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			CutStyle:  line.CutStyle,
			Price:     line.Product.Price,
		})
	}
	if err := unavailable.OrNil(); err != nil {
		return nil, err
	}
	return items, nil
}

// afterPlace sends the confirmation email and the created event in the
// background. Failures are logged only; the order already exists.
func (s *OrderService) afterPlace(ctx context.Context, order *models.Order) {
	if s.notifier == nil && s.publisher == nil {
		return
	}
	snapshot := *order
	s.background(ctx, func(ctx context.Context) {
		if s.notifier != nil {
			s.sendConfirmation(ctx, &snapshot)
		}
		s.publish(ctx, models.NewOrderEvent(models.EventOrderCreated, &snapshot))
	})
}

func (s *OrderService) sendConfirmation(ctx context.Context, order *models.Order) {
	user, err := s.store.GetUser(ctx, order.UserID)
	if err != nil || user.Email == "" {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("no email address for order confirmation")
		return
	}
	if err := s.notifier.SendOrderConfirmation(ctx, user.Email, order); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to send order confirmation")
	}
}

func (s *OrderService) publish(ctx context.Context, event models.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("order_id", event.OrderID).Str("event", event.Type).Msg("failed to publish order event")
	}
}

func (s *OrderService) background(ctx context.Context, fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until queued notifications have finished.
func (s *OrderService) Wait() {
	s.wg.Wait()
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.store.GetOrders(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.store.GetOrders(ctx, "")
}

// Get returns an order visible to the caller. Customers only see their own
// orders; someone else's order looks the same as a missing one.
func (s *OrderService) Get(ctx context.Context, caller *models.User, id string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller == nil || (order.UserID != caller.ID && !caller.IsAdmin()) {
		return nil, storage.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsValidOrderStatus(status) {
		return nil, fieldError("status", "Status must be one of "+strings.Join(models.OrderStatuses, ", "))
	}

	order, err := s.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	metrics.OrderStatusChanges.WithLabelValues(status).Inc()
	log.Info().Str("order_id", id).Str("status", status).Msg("order status updated")

	if s.publisher != nil {
		event := models.NewOrderEvent(models.EventOrderStatusChanged, order)
		s.background(ctx, func(ctx context.Context) { s.publish(ctx, event) })
	}
	return order, nil
}

// Stats summarises the shop for the admin dashboard. Cancelled orders are
// counted but do not contribute revenue.
func (s *OrderService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	orders, err := s.store.GetOrders(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	stats := &models.DashboardStats{
		TotalOrders:    len(orders),
		TotalRevenue:   decimal.Zero,
		ActiveProducts: len(products),
		OrdersByStatus: make(map[string]int, len(models.OrderStatuses)),
	}
	for _, status := range models.OrderStatuses {
		stats.OrdersByStatus[status] = 0
	}

	customers := make(map[string]struct{})
	for _, o := range orders {
		customers[o.UserID] = struct{}{}
		stats.OrdersByStatus[o.Status]++
		if o.Status != models.OrderStatusCancelled {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		}
	}
	stats.TotalCustomers = len(customers)
	return stats, nil
}

