package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"veggie-shop/models"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

// DemoProducts returns the starter catalog. The ids match the rows inserted
// by the 000002 migration so both backends serve the same catalog.
func DemoProducts(now time.Time) []models.Product {
	products := []models.Product{
		{
			ID:            "1",
			Name:          "Fresh Spinach",
			Description:   "Premium quality organic spinach, rich in iron and vitamins",
			Category:      "leafy",
			Price:         price("45.00"),
			OriginalPrice: pricePtr("55.00"),
			ImageURL:      "https://images.unsplash.com/photo-1576045057995-568f588f82fb?w=400&h=300&fit=crop",
			CutStyles:     []string{"Whole Leaves", "Chopped", "Baby Spinach"},
			FreshnessDays: 3,
			IsOrganic:     true,
			Stock:         50,
			NutritionInfo: &models.NutritionInfo{Protein: "2.9g", Carbs: "3.6g", Fiber: "2.2g", Calories: "23"},
		},
		{
			ID:            "2",
			Name:          "Fresh Carrots",
			Description:   "Sweet and crunchy carrots, perfect for cooking and salads",
			Category:      "root",
			Price:         price("32.00"),
			OriginalPrice: pricePtr("38.00"),
			ImageURL:      "https://images.unsplash.com/photo-1598170845058-32b9d6a5da37?w=400&h=300&fit=crop",
			CutStyles:     []string{"Whole", "Diced", "Julienne", "Sliced"},
			FreshnessDays: 7,
			Stock:         75,
			NutritionInfo: &models.NutritionInfo{Protein: "0.9g", Carbs: "9.6g", Fiber: "2.8g", Calories: "41"},
		},
		{
			ID:            "3",
			Name:          "Bell Peppers Mix",
			Description:   "Colorful mix of red, yellow, and green bell peppers",
			Category:      "seasonal",
			Price:         price("75.00"),
			OriginalPrice: pricePtr("85.00"),
			ImageURL:      "https://images.unsplash.com/photo-1563565375-f3fdfdbefa83?w=400&h=300&fit=crop",
			CutStyles:     []string{"Whole", "Strips", "Diced", "Rings"},
			FreshnessDays: 5,
			IsOrganic:     true,
			Stock:         40,
			NutritionInfo: &models.NutritionInfo{Protein: "1.9g", Carbs: "9.0g", Fiber: "2.5g", Calories: "31"},
		},
		{
			ID:            "4",
			Name:          "Fresh Broccoli",
			Description:   "Nutrient-rich broccoli florets, high in vitamin C",
			Category:      "seasonal",
			Price:         price("68.00"),
			ImageURL:      "https://images.unsplash.com/photo-1628773822503-930a7eaecf80?w=400&h=300&fit=crop",
			CutStyles:     []string{"Florets", "Chopped", "Whole Head"},
			FreshnessDays: 4,
			Stock:         30,
			NutritionInfo: &models.NutritionInfo{Protein: "2.8g", Carbs: "6.6g", Fiber: "2.6g", Calories: "34"},
		},
		{
			ID:            "5",
			Name:          "Organic Kale",
			Description:   "Superfood kale leaves, packed with antioxidants",
			Category:      "leafy",
			Price:         price("55.00"),
			OriginalPrice: pricePtr("65.00"),
			ImageURL:      "https://images.unsplash.com/photo-1590779033100-9f60a05a013d?w=400&h=300&fit=crop",
			CutStyles:     []string{"Whole Leaves", "Chopped", "Massage Ready"},
			FreshnessDays: 5,
			IsOrganic:     true,
			Stock:         35,
			NutritionInfo: &models.NutritionInfo{Protein: "4.3g", Carbs: "8.8g", Fiber: "3.6g", Calories: "49"},
		},
		{
			ID:            "6",
			Name:          "Fresh Tomatoes",
			Description:   "Juicy and ripe tomatoes, perfect for salads and cooking",
			Category:      "seasonal",
			Price:         price("42.00"),
			ImageURL:      "https://images.unsplash.com/photo-1546470427-e26264e7ac1e?w=400&h=300&fit=crop",
			CutStyles:     []string{"Whole", "Sliced", "Diced", "Wedges"},
			FreshnessDays: 6,
			Stock:         60,
			NutritionInfo: &models.NutritionInfo{Protein: "0.9g", Carbs: "3.9g", Fiber: "1.2g", Calories: "18"},
		},
	}

	for i := range products {
		products[i].IsActive = true
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}
	return products
}
