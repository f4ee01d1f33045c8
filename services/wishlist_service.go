package services

import (
	"context"

	"veggie-shop/models"
	"veggie-shop/storage"
)

type WishlistService struct {
	store storage.WishlistStore
}

func NewWishlistService(store storage.WishlistStore) *WishlistService {
	return &WishlistService{store: store}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]models.Wishlist, error) {
	return s.store.GetWishlist(ctx, userID)
}

// Add is idempotent; adding a product twice returns the existing entry.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*models.Wishlist, error) {
	return s.store.AddToWishlist(ctx, models.Wishlist{UserID: userID, ProductID: productID})
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	return s.store.RemoveFromWishlist(ctx, userID, productID)
}
