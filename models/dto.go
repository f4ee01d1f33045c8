package models

import "github.com/shopspring/decimal"

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	CutStyle  string `json:"cutStyle"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	DeliverySlot    string          `json:"deliverySlot"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AddToWishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Category      string           `json:"category" binding:"required"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	ImageURL      string           `json:"imageUrl"`
	CutStyles     []string         `json:"cutStyles"`
	FreshnessDays int              `json:"freshnessDays" binding:"min=0"`
	IsOrganic     bool             `json:"isOrganic"`
	NutritionInfo *NutritionInfo   `json:"nutritionInfo"`
	Stock         int              `json:"stock" binding:"min=0"`
}

func (r CreateProductRequest) ToProduct() Product {
	cutStyles := r.CutStyles
	if cutStyles == nil {
		cutStyles = []string{}
	}
	return Product{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		ImageURL:      r.ImageURL,
		CutStyles:     cutStyles,
		FreshnessDays: r.FreshnessDays,
		IsOrganic:     r.IsOrganic,
		NutritionInfo: r.NutritionInfo,
		IsActive:      true,
		Stock:         r.Stock,
	}
}
