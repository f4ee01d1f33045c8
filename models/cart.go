package models

import "time"

type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CutStyle  string    `json:"cutStyle"`
	CreatedAt time.Time `json:"createdAt"`
	Product   *Product  `json:"product,omitempty"`
}

type CartSummary struct {
	Items      []CartItem  `json:"items"`
	TotalItems int         `json:"totalItems"`
	Totals     OrderTotals `json:"totals"`
}
