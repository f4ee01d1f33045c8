package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-shop/models"
)

func TestMemoryStorageSeedsDemoCatalogInOrder(t *testing.T) {
	s := NewMemoryStorage()

	products, err := s.GetProducts(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids)
}

func TestMemoryStorageReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	p, err := s.GetProduct(ctx, "1")
	require.NoError(t, err)
	p.CutStyles[0] = "Mangled"
	p.NutritionInfo.Protein = "0g"
	*p.OriginalPrice = decimal.NewFromInt(1)

	again, err := s.GetProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Whole Leaves", again.CutStyles[0])
	assert.Equal(t, "2.9g", again.NutritionInfo.Protein)
	assert.True(t, again.OriginalPrice.Equal(decimal.NewFromInt(55)))
}

func TestMemoryStorageCartKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	for _, id := range []string{"6", "2", "4"} {
		_, err := s.AddToCart(ctx, models.CartItem{UserID: "u1", ProductID: id, Quantity: 1})
		require.NoError(t, err)
	}
	// merging into an existing line must not move it
	_, err := s.AddToCart(ctx, models.CartItem{UserID: "u1", ProductID: "6", Quantity: 2})
	require.NoError(t, err)

	items, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "6", items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "2", items[1].ProductID)
	assert.Equal(t, "4", items[2].ProductID)
}

func TestMemoryStorageOrderSeesCurrentProduct(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	order, err := s.CreateOrder(ctx, testOrder("u1"), []models.OrderItem{
		{ProductID: "1", Quantity: 1, Price: decimal.NewFromInt(45)},
	})
	require.NoError(t, err)

	name := "Baby Spinach"
	_, err = s.UpdateProduct(ctx, "1", models.ProductUpdate{Name: &name})
	require.NoError(t, err)

	fetched, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.OrderItems, 1)
	assert.Equal(t, "Baby Spinach", fetched.OrderItems[0].Product.Name)
	assert.True(t, fetched.OrderItems[0].Price.Equal(decimal.NewFromInt(45)), "price is a snapshot")
}

func TestMemoryStorageStockSpansDuplicateLines(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	// 30 broccoli in stock; two lines of 20 must fail as a whole
	_, err := s.CreateOrder(ctx, testOrder("u1"), []models.OrderItem{
		{ProductID: "4", Quantity: 20, CutStyle: "Florets", Price: decimal.NewFromInt(68)},
		{ProductID: "4", Quantity: 20, CutStyle: "Chopped", Price: decimal.NewFromInt(68)},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	p, err := s.GetProduct(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Stock)
}
