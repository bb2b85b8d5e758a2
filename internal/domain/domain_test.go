package domain_test

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront-state/internal/domain"
	"github.com/shopspring/decimal"
)

func randomProduct() domain.Product {
	return domain.Product{
		ID:          gofakeit.UUID(),
		Name:        gofakeit.ProductName(),
		Price:       decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Image:       gofakeit.URL(),
		Category:    gofakeit.ProductCategory(),
		Rating:      gofakeit.Float64Range(1, 5),
		Description: gofakeit.ProductDescription(),
	}
}

func productWithPrice(price int64) domain.Product {
	p := randomProduct()
	p.Price = decimal.NewFromInt(price)
	return p
}
