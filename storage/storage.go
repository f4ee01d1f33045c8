// Package storage persists users, products, carts, orders and wishlists.
//
// Two implementations satisfy Storage: MemoryStorage, pre-seeded with the demo
// catalog, and PostgresStorage. Both must pass the same contract tests.
package storage

import (
	"context"
	"errors"

	"veggie-shop/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order has no items")
)

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, user models.User) (*models.User, error)
}

// ProductStore reads only active products; inactive ones behave as missing.
// UpdateProduct and DeleteProduct address products regardless of the flag.
type ProductStore interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// CartStore keeps at most one row per (user, product, cut style). AddToCart
// sums the quantity into an existing row instead of inserting a duplicate.
type CartStore interface {
	GetCartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	AddToCart(ctx context.Context, item models.CartItem) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, userID, id string, quantity int) (*models.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, id string) error
	ClearCart(ctx context.Context, userID string) error
}

// OrderBuilder turns the locked cart lines into the order to store. It runs
// while the store holds its locks and must not call back into the store.
type OrderBuilder func(cart []models.CartItem) (models.Order, []models.OrderItem, error)

// OrderStore writes an order and all of its items as one unit.
// PlaceOrderFromCart additionally consumes the cart lines it was built from in
// the same unit, so a cart can only be checked out once.
type OrderStore interface {
	GetOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem) (*models.Order, error)
	PlaceOrderFromCart(ctx context.Context, userID string, build OrderBuilder) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error)
}

// WishlistStore is a membership set keyed by (user, product).
type WishlistStore interface {
	GetWishlist(ctx context.Context, userID string) ([]models.Wishlist, error)
	AddToWishlist(ctx context.Context, item models.Wishlist) (*models.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
}

type Storage interface {
	UserStore
	ProductStore
	CartStore
	OrderStore
	WishlistStore
}
