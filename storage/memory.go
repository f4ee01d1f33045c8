package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"veggie-shop/models"
)

type cartKey struct {
	userID    string
	productID string
	cutStyle  string
}

type wishlistKey struct {
	userID    string
	productID string
}

type productRecord struct {
	product models.Product
	seq     int64
}

type cartRecord struct {
	item models.CartItem
	seq  int64
}

type orderRecord struct {
	order models.Order
	seq   int64
}

type wishlistRecord struct {
	item models.Wishlist
	seq  int64
}

// MemoryStorage keeps everything in process memory. It is safe for concurrent
// use; a single mutex serialises writers, which is what makes cart merges and
// order creation atomic.
type MemoryStorage struct {
	mu           sync.RWMutex
	seq          int64
	users        map[string]models.User
	products     map[string]productRecord
	cartItems    map[string]cartRecord
	cartIndex    map[cartKey]string
	orders       map[string]orderRecord
	wishlist     map[string]wishlistRecord
	wishlistKeys map[wishlistKey]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns a store seeded with the demo catalog.
func NewMemoryStorage() *MemoryStorage {
	s := NewEmptyMemoryStorage()
	now := time.Now().UTC()
	for i, p := range DemoProducts(now) {
		// keep the demo catalog in its listed order under newest-first sorting
		p.CreatedAt = now.Add(-time.Duration(i) * time.Second)
		p.UpdatedAt = p.CreatedAt
		s.products[p.ID] = productRecord{product: p, seq: s.nextSeqLocked()}
	}
	return s
}

func NewEmptyMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:        make(map[string]models.User),
		products:     make(map[string]productRecord),
		cartItems:    make(map[string]cartRecord),
		cartIndex:    make(map[cartKey]string),
		orders:       make(map[string]orderRecord),
		wishlist:     make(map[string]wishlistRecord),
		wishlistKeys: make(map[wishlistKey]string),
	}
}

func (s *MemoryStorage) nextSeqLocked() int64 {
	s.seq++
	return s.seq
}

// Users ----------------------------------------------------------------------

func (s *MemoryStorage) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStorage) UpsertUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		user.CreatedAt = now
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	user.UpdatedAt = now
	s.users[user.ID] = user
	return &user, nil
}

// Products -------------------------------------------------------------------

func (s *MemoryStorage) activeProducts(match func(*models.Product) bool) []models.Product {
	records := make([]productRecord, 0, len(s.products))
	for _, rec := range s.products {
		if rec.product.IsActive && match(&rec.product) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.seq > b.seq
	})

	products := make([]models.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, cloneProduct(rec.product))
	}
	return products
}

func (s *MemoryStorage) GetProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeProducts(func(*models.Product) bool { return true }), nil
}

func (s *MemoryStorage) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.products[id]
	if !ok || !rec.product.IsActive {
		return nil, ErrNotFound
	}
	p := cloneProduct(rec.product)
	return &p, nil
}

func (s *MemoryStorage) GetProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeProducts(func(p *models.Product) bool { return p.Category == category }), nil
}

func (s *MemoryStorage) CreateProduct(_ context.Context, product models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CutStyles == nil {
		product.CutStyles = []string{}
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	product = cloneProduct(product)
	s.products[product.ID] = productRecord{product: product, seq: s.nextSeqLocked()}
	p := cloneProduct(product)
	return &p, nil
}

func (s *MemoryStorage) UpdateProduct(_ context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(&rec.product)
	rec.product.UpdatedAt = time.Now().UTC()
	s.products[id] = rec

	p := cloneProduct(rec.product)
	return &p, nil
}

func (s *MemoryStorage) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	rec.product.IsActive = false
	rec.product.UpdatedAt = time.Now().UTC()
	s.products[id] = rec
	return nil
}

// productRefLocked returns the current product for a join, active or not.
func (s *MemoryStorage) productRefLocked(id string) *models.Product {
	rec, ok := s.products[id]
	if !ok {
		return nil
	}
	p := cloneProduct(rec.product)
	return &p
}

// Cart -----------------------------------------------------------------------

func (s *MemoryStorage) GetCartItems(_ context.Context, userID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartItemsLocked(userID), nil
}

func (s *MemoryStorage) cartItemsLocked(userID string) []models.CartItem {
	records := make([]cartRecord, 0)
	for _, rec := range s.cartItems {
		if rec.item.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	items := make([]models.CartItem, 0, len(records))
	for _, rec := range records {
		item := rec.item
		item.Product = s.productRefLocked(item.ProductID)
		items = append(items, item)
	}
	return items
}

func (s *MemoryStorage) AddToCart(_ context.Context, item models.CartItem) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[item.ProductID]
	if !ok || !rec.product.IsActive {
		return nil, ErrNotFound
	}

	key := cartKey{userID: item.UserID, productID: item.ProductID, cutStyle: item.CutStyle}
	if id, exists := s.cartIndex[key]; exists {
		existing := s.cartItems[id]
		existing.item.Quantity += item.Quantity
		s.cartItems[id] = existing

		merged := existing.item
		merged.Product = s.productRefLocked(merged.ProductID)
		return &merged, nil
	}

	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	item.Product = nil
	s.cartItems[item.ID] = cartRecord{item: item, seq: s.nextSeqLocked()}
	s.cartIndex[key] = item.ID

	item.Product = s.productRefLocked(item.ProductID)
	return &item, nil
}

func (s *MemoryStorage) UpdateCartItem(_ context.Context, userID, id string, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.cartItems[id]
	if !ok || rec.item.UserID != userID {
		return nil, ErrNotFound
	}
	rec.item.Quantity = quantity
	s.cartItems[id] = rec

	item := rec.item
	item.Product = s.productRefLocked(item.ProductID)
	return &item, nil
}

func (s *MemoryStorage) RemoveFromCart(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.cartItems[id]
	if !ok || rec.item.UserID != userID {
		return ErrNotFound
	}
	s.deleteCartItemLocked(rec.item)
	return nil
}

func (s *MemoryStorage) ClearCart(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.cartItems {
		if rec.item.UserID == userID {
			s.deleteCartItemLocked(rec.item)
		}
	}
	return nil
}

func (s *MemoryStorage) deleteCartItemLocked(item models.CartItem) {
	delete(s.cartItems, item.ID)
	delete(s.cartIndex, cartKey{userID: item.UserID, productID: item.ProductID, cutStyle: item.CutStyle})
}

// Orders ---------------------------------------------------------------------

func (s *MemoryStorage) withOrderProductsLocked(order models.Order) models.Order {
	items := make([]models.OrderItem, len(order.OrderItems))
	for i, item := range order.OrderItems {
		item.Product = s.productRefLocked(item.ProductID)
		items[i] = item
	}
	order.OrderItems = items
	return order
}

func (s *MemoryStorage) GetOrders(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]orderRecord, 0)
	for _, rec := range s.orders {
		if userID == "" || rec.order.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })

	orders := make([]models.Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, s.withOrderProductsLocked(rec.order))
	}
	return orders, nil
}

func (s *MemoryStorage) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	order := s.withOrderProductsLocked(rec.order)
	return &order, nil
}

func (s *MemoryStorage) CreateOrder(_ context.Context, order models.Order, items []models.OrderItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createOrderLocked(order, items)
}

// PlaceOrderFromCart builds and stores the order and removes the cart lines it
// consumed, all under one write lock.
func (s *MemoryStorage) PlaceOrderFromCart(_ context.Context, userID string, build OrderBuilder) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartItemsLocked(userID)
	if len(cart) == 0 {
		return nil, ErrEmptyOrder
	}

	order, items, err := build(cart)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	created, err := s.createOrderLocked(order, items)
	if err != nil {
		return nil, err
	}
	for _, item := range cart {
		s.deleteCartItemLocked(item)
	}
	return created, nil
}

func (s *MemoryStorage) createOrderLocked(order models.Order, items []models.OrderItem) (*models.Order, error) {
	// Validate everything before the first write so a failure leaves no trace.
	needed := make(map[string]int)
	for _, item := range items {
		if _, ok := s.products[item.ProductID]; !ok {
			return nil, ErrNotFound
		}
		needed[item.ProductID] += item.Quantity
	}
	for productID, qty := range needed {
		if s.products[productID].product.Stock < qty {
			return nil, ErrInsufficientStock
		}
	}

	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.OrderItems = make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		item.CreatedAt = now
		item.Product = nil
		order.OrderItems = append(order.OrderItems, item)
	}

	for productID, qty := range needed {
		rec := s.products[productID]
		rec.product.Stock -= qty
		rec.product.UpdatedAt = now
		s.products[productID] = rec
	}
	s.orders[order.ID] = orderRecord{order: order, seq: s.nextSeqLocked()}

	created := s.withOrderProductsLocked(order)
	return &created, nil
}

func (s *MemoryStorage) UpdateOrderStatus(_ context.Context, id, status string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec.order.Status = status
	rec.order.UpdatedAt = time.Now().UTC()
	s.orders[id] = rec

	order := s.withOrderProductsLocked(rec.order)
	return &order, nil
}

// Wishlist -------------------------------------------------------------------

func (s *MemoryStorage) GetWishlist(_ context.Context, userID string) ([]models.Wishlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]wishlistRecord, 0)
	for _, rec := range s.wishlist {
		if rec.item.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })

	items := make([]models.Wishlist, 0, len(records))
	for _, rec := range records {
		item := rec.item
		item.Product = s.productRefLocked(item.ProductID)
		items = append(items, item)
	}
	return items, nil
}

func (s *MemoryStorage) AddToWishlist(_ context.Context, item models.Wishlist) (*models.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[item.ProductID]
	if !ok || !rec.product.IsActive {
		return nil, ErrNotFound
	}

	key := wishlistKey{userID: item.UserID, productID: item.ProductID}
	if id, exists := s.wishlistKeys[key]; exists {
		existing := s.wishlist[id].item
		existing.Product = s.productRefLocked(existing.ProductID)
		return &existing, nil
	}

	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	item.Product = nil
	s.wishlist[item.ID] = wishlistRecord{item: item, seq: s.nextSeqLocked()}
	s.wishlistKeys[key] = item.ID

	item.Product = s.productRefLocked(item.ProductID)
	return &item, nil
}

func (s *MemoryStorage) RemoveFromWishlist(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := wishlistKey{userID: userID, productID: productID}
	id, ok := s.wishlistKeys[key]
	if !ok {
		return ErrNotFound
	}
	delete(s.wishlist, id)
	delete(s.wishlistKeys, key)
	return nil
}

func cloneProduct(p models.Product) models.Product {
	if p.CutStyles != nil {
		p.CutStyles = append([]string(nil), p.CutStyles...)
	}
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		p.OriginalPrice = &op
	}
	if p.NutritionInfo != nil {
		ni := *p.NutritionInfo
		p.NutritionInfo = &ni
	}
	return p
}
