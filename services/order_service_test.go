package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-shop/models"
	"veggie-shop/storage"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, to string, order *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to+":"+order.ID)
	return n.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, event models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func validOrderRequest() models.PlaceOrderRequest {
	return models.PlaceOrderRequest{
		DeliveryAddress: models.DeliveryAddress{
			FirstName: "Asha",
			LastName:  "Rao",
			Street:    "12 MG Road",
			City:      "Bengaluru",
			State:     "Karnataka",
			PinCode:   "560001",
		},
		DeliverySlot:  "Today 2:00 PM - 6:00 PM",
		PaymentMethod: "cod",
	}
}

type orderFixture struct {
	store     *storage.MemoryStorage
	carts     *CartService
	orders    *OrderService
	notifier  *recordingNotifier
	publisher *recordingPublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	store := storage.NewMemoryStorage()
	_, err := store.UpsertUser(context.Background(), models.User{ID: "u1", Email: "asha@example.com"})
	require.NoError(t, err)

	f := &orderFixture{
		store:     store,
		carts:     NewCartService(store, store),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	f.orders = NewOrderService(store, f.notifier, f.publisher)
	return f
}

func (f *orderFixture) add(t *testing.T, productID string, qty int) {
	t.Helper()
	_, err := f.carts.Add(context.Background(), "u1", models.AddToCartRequest{ProductID: productID, Quantity: qty})
	require.NoError(t, err)
}

func TestPlaceOrderFromCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.add(t, "1", 2)
	f.add(t, "2", 1)

	order, err := f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)
	f.orders.Wait()

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Len(t, order.OrderItems, 2)
	assert.True(t, order.Subtotal.Equal(d("122")))
	assert.True(t, order.TaxAmount.Equal(d("22")))
	assert.True(t, order.DeliveryFee.Equal(d("50")))
	assert.True(t, order.TotalAmount.Equal(d("194")))

	cart, err := f.carts.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart, "cart is cleared after checkout")

	spinach, err := f.store.GetProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 48, spinach.Stock)

	assert.Equal(t, []string{"asha@example.com:" + order.ID}, f.notifier.sent)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, models.EventOrderCreated, f.publisher.events[0].Type)
	assert.Equal(t, 3, f.publisher.events[0].ItemCount)
}

func TestPlaceOrderSnapshotsPrices(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.add(t, "1", 1)

	order, err := f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)
	f.orders.Wait()

	price := d("99")
	_, err = f.store.UpdateProduct(ctx, "1", models.ProductUpdate{Price: &price})
	require.NoError(t, err)

	fetched, err := f.orders.Get(ctx, &models.User{ID: "u1"}, order.ID)
	require.NoError(t, err)
	assert.True(t, fetched.OrderItems[0].Price.Equal(d("45")))
}

func TestPlaceOrderValidatesAddress(t *testing.T) {
	f := newOrderFixture(t)
	f.add(t, "1", 1)

	req := validOrderRequest()
	req.DeliveryAddress.PinCode = "5600"
	req.DeliveryAddress.City = " "
	req.PaymentMethod = "bitcoin"

	_, err := f.orders.Place(context.Background(), "u1", req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "PIN code must be 6 digits", verr.Fields["deliveryAddress.pinCode"])
	assert.Equal(t, "City is required", verr.Fields["deliveryAddress.city"])
	assert.Contains(t, verr.Fields, "paymentMethod")

	cart, err := f.carts.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, cart, 1, "cart untouched on validation failure")
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.Place(context.Background(), "u1", validOrderRequest())
	assert.ErrorIs(t, err, storage.ErrEmptyOrder)
}

func TestPlaceOrderInsufficientStockKeepsCart(t *testing.T) {
	f := newOrderFixture(t)
	f.add(t, "4", 31)

	_, err := f.orders.Place(context.Background(), "u1", validOrderRequest())
	assert.ErrorIs(t, err, storage.ErrInsufficientStock)

	cart, err := f.carts.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestPlaceOrderNotificationFailureIsNotFatal(t *testing.T) {
	f := newOrderFixture(t)
	f.notifier.err = errors.New("smtp down")
	f.add(t, "1", 1)

	order, err := f.orders.Place(context.Background(), "u1", validOrderRequest())
	require.NoError(t, err)
	f.orders.Wait()
	assert.NotEmpty(t, order.ID)
}

func TestPlaceOrderAcceptsCashAlias(t *testing.T) {
	f := newOrderFixture(t)
	f.add(t, "1", 1)

	req := validOrderRequest()
	req.PaymentMethod = "Cash"
	order, err := f.orders.Place(context.Background(), "u1", req)
	require.NoError(t, err)
	f.orders.Wait()
	assert.Equal(t, "cod", order.PaymentMethod)
}

func TestGetOrderHidesOtherCustomersOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.add(t, "1", 1)

	order, err := f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)
	f.orders.Wait()

	_, err = f.orders.Get(ctx, &models.User{ID: "u2", Role: models.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := f.orders.Get(ctx, &models.User{ID: "admin", Role: models.RoleAdmin}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestUpdateStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.add(t, "1", 1)

	order, err := f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)
	f.orders.Wait()

	_, err = f.orders.UpdateStatus(ctx, order.ID, "shipped")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	updated, err := f.orders.UpdateStatus(ctx, order.ID, "Processing")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)

	_, err = f.orders.UpdateStatus(ctx, "missing", models.OrderStatusDelivered)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	f.orders.Wait()
	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, models.EventOrderStatusChanged, f.publisher.events[1].Type)
	assert.Equal(t, models.OrderStatusProcessing, f.publisher.events[1].Status)
}

func TestStats(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.add(t, "1", 2)
	f.add(t, "2", 1)
	first, err := f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)

	f.add(t, "6", 1)
	second, err := f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, second.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	f.orders.Wait()

	stats, err := f.orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Equal(t, 6, stats.ActiveProducts)
	assert.True(t, stats.TotalRevenue.Equal(first.TotalAmount), "cancelled orders earn nothing")
	assert.Equal(t, 1, stats.OrdersByStatus[models.OrderStatusPending])
	assert.Equal(t, 1, stats.OrdersByStatus[models.OrderStatusCancelled])
	assert.Equal(t, 0, stats.OrdersByStatus[models.OrderStatusDelivered])
}

type recordingCatalog struct {
	mu          sync.Mutex
	invalidated int
}

func (c *recordingCatalog) InvalidateCache(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
}

func TestPlaceOrderTwiceConcurrentlyCreatesOneOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.add(t, "1", 2)

	const submits = 4
	var wg sync.WaitGroup
	errs := make([]error, submits)
	for i := 0; i < submits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.Place(ctx, "u1", validOrderRequest())
		}(i)
	}
	wg.Wait()
	f.orders.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
			continue
		}
		assert.ErrorIs(t, err, storage.ErrEmptyOrder)
	}
	assert.Equal(t, 1, placed)

	orders, err := f.orders.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	spinach, err := f.store.GetProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 48, spinach.Stock)
}

func TestPlaceOrderKeepsItemsAddedAfterCheckout(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.add(t, "1", 1)

	_, err := f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)
	f.orders.Wait()
	f.add(t, "2", 1)

	cart, err := f.carts.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "2", cart[0].ProductID)
}

func TestPlaceOrderRejectsWithdrawnProduct(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.add(t, "1", 1)
	f.add(t, "2", 1)
	require.NoError(t, f.store.DeleteProduct(ctx, "2"))

	_, err := f.orders.Place(ctx, "u1", validOrderRequest())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items")

	cart, err := f.carts.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cart, 2)

	spinach, err := f.store.GetProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 50, spinach.Stock)
}

func TestPlaceOrderInvalidatesCatalogCache(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	catalog := &recordingCatalog{}
	f.orders.WithCatalogCache(catalog)

	_, err := f.orders.Place(ctx, "u1", validOrderRequest())
	assert.ErrorIs(t, err, storage.ErrEmptyOrder)
	assert.Equal(t, 0, catalog.invalidated)

	f.add(t, "1", 1)
	_, err = f.orders.Place(ctx, "u1", validOrderRequest())
	require.NoError(t, err)
	f.orders.Wait()
	assert.Equal(t, 1, catalog.invalidated)
}
