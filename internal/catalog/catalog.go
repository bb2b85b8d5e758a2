// Package catalog holds the fixed product list the storefront sells.
package catalog

import (
	"strings"

	"github.com/nikolayk812/storefront-state/internal/domain"
	"github.com/shopspring/decimal"
)

// CategoryAll matches every product in Filter.
const CategoryAll = "all"

var Categories = []string{CategoryAll, "electronics", "fashion", "home", "sports"}

var products = []domain.Product{
	{
		ID:          "1",
		Name:        "iPhone 15 Pro",
		Price:       decimal.NewFromInt(999),
		Image:       "https://images.pexels.com/photos/699122/pexels-photo-699122.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:    "Electronics",
		Rating:      4.8,
		Description: "Latest iPhone with Pro camera system",
	},
	{
		ID:          "2",
		Name:        "AirPods Pro",
		Price:       decimal.NewFromInt(249),
		Image:       "https://images.pexels.com/photos/3780681/pexels-photo-3780681.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:    "Electronics",
		Rating:      4.7,
		Description: "Wireless earbuds with noise cancellation",
	},
	{
		ID:          "3",
		Name:        "Nike Air Max",
		Price:       decimal.NewFromInt(129),
		Image:       "https://images.pexels.com/photos/2529148/pexels-photo-2529148.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:    "Fashion",
		Rating:      4.6,
		Description: "Comfortable running shoes",
	},
	{
		ID:          "4",
		Name:        "MacBook Pro",
		Price:       decimal.NewFromInt(1299),
		Image:       "https://images.pexels.com/photos/205421/pexels-photo-205421.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:    "Electronics",
		Rating:      4.9,
		Description: "Powerful laptop for professionals",
	},
	{
		ID:          "5",
		Name:        "Samsung Watch",
		Price:       decimal.NewFromInt(299),
		Image:       "https://images.pexels.com/photos/437037/pexels-photo-437037.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:    "Electronics",
		Rating:      4.5,
		Description: "Smart watch with health tracking",
	},
	{
		ID:          "6",
		Name:        "Designer Backpack",
		Price:       decimal.NewFromInt(89),
		Image:       "https://images.pexels.com/photos/2905238/pexels-photo-2905238.jpeg?auto=compress&cs=tinysrgb&w=400",
		Category:    "Fashion",
		Rating:      4.4,
		Description: "Stylish and functional backpack",
	},
}

func Products() []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}

func Find(id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Filter matches name substrings and categories case-insensitively. An empty
// query matches every name, an empty or "all" category every category.
func Filter(query, category string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.ToLower(strings.TrimSpace(category))

	var out []domain.Product
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if category != "" && category != CategoryAll && strings.ToLower(p.Category) != category {
			continue
		}
		out = append(out, p)
	}
	return out
}
