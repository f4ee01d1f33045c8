package services

import (
	"context"
	"fmt"

	"veggie-shop/models"
	"veggie-shop/storage"
)

type CartService struct {
	products storage.ProductStore
	carts    storage.CartStore
}

func NewCartService(products storage.ProductStore, carts storage.CartStore) *CartService {
	return &CartService{products: products, carts: carts}
}

func (s *CartService) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.carts.GetCartItems(ctx, userID)
}

// Summary returns the cart together with its priced totals. Lines for
// withdrawn products stay listed but are not counted or priced.
func (s *CartService) Summary(ctx context.Context, userID string) (*models.CartSummary, error) {
	items, err := s.carts.GetCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	count := 0
	for _, item := range items {
		if purchasable(item) {
			count += item.Quantity
		}
	}
	return &models.CartSummary{
		Items:      items,
		TotalItems: count,
		Totals:     CalculateTotals(cartLines(items)),
	}, nil
}

// Add puts a product into the cart. A repeated (product, cut style) pair
// increases the quantity of the existing line.
func (s *CartService) Add(ctx context.Context, userID string, req models.AddToCartRequest) (*models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, fieldError("quantity", "Quantity must be at least 1")
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cutStyle := req.CutStyle
	if len(product.CutStyles) > 0 {
		if cutStyle == "" {
			cutStyle = product.CutStyles[0]
		} else if !product.HasCutStyle(cutStyle) {
			return nil, fieldError("cutStyle", fmt.Sprintf("%q is not available for %s", cutStyle, product.Name))
		}
	}

	return s.carts.AddToCart(ctx, models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
		CutStyle:  cutStyle,
	})
}

func (s *CartService) Update(ctx context.Context, userID, id string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fieldError("quantity", "Quantity must be at least 1")
	}
	return s.carts.UpdateCartItem(ctx, userID, id, quantity)
}

func (s *CartService) Remove(ctx context.Context, userID, id string) error {
	return s.carts.RemoveFromCart(ctx, userID, id)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.ClearCart(ctx, userID)
}
