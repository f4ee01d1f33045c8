package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type NutritionInfo struct {
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fiber    string `json:"fiber"`
	Calories string `json:"calories"`
}

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	ImageURL      string           `json:"imageUrl,omitempty"`
	CutStyles     []string         `json:"cutStyles"`
	FreshnessDays int              `json:"freshnessDays"`
	IsOrganic     bool             `json:"isOrganic"`
	NutritionInfo *NutritionInfo   `json:"nutritionInfo,omitempty"`
	IsActive      bool             `json:"isActive"`
	Stock         int              `json:"stock"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// HasCutStyle reports whether style is one of the product's preparation variants.
func (p *Product) HasCutStyle(style string) bool {
	for _, s := range p.CutStyles {
		if s == style {
			return true
		}
	}
	return false
}

// ProductUpdate carries a partial product change; nil fields are left untouched.
type ProductUpdate struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	ImageURL      *string          `json:"imageUrl"`
	CutStyles     []string         `json:"cutStyles"`
	FreshnessDays *int             `json:"freshnessDays"`
	IsOrganic     *bool            `json:"isOrganic"`
	NutritionInfo *NutritionInfo   `json:"nutritionInfo"`
	IsActive      *bool            `json:"isActive"`
	Stock         *int             `json:"stock"`
}

// Apply copies every set field of u onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		op := *u.OriginalPrice
		p.OriginalPrice = &op
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.CutStyles != nil {
		p.CutStyles = append([]string(nil), u.CutStyles...)
	}
	if u.FreshnessDays != nil {
		p.FreshnessDays = *u.FreshnessDays
	}
	if u.IsOrganic != nil {
		p.IsOrganic = *u.IsOrganic
	}
	if u.NutritionInfo != nil {
		ni := *u.NutritionInfo
		p.NutritionInfo = &ni
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
}
