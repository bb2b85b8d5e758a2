package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront-state/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	keyAccount      = "account"
	keyCart         = "cart"
	keyWishlist     = "wishlist"
	keyLastCheckout = "last_checkout"
)

// Amounts travel as JSON numbers written from the decimal's exact string, so a
// reload gives back the very same value.

type productDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Rating      float64     `json:"rating"`
	Description string      `json:"description"`
}

type cartLineDTO struct {
	productDTO
	Quantity int `json:"quantity"`
}

type accountDTO struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Budget json.Number `json:"budget"`
	Spent  json.Number `json:"spent"`
}

type checkoutDTO struct {
	ID          string        `json:"id"`
	AccountID   string        `json:"accountId"`
	SpendDelta  json.Number   `json:"spendDelta"`
	CartClear   bool          `json:"cartClear"`
	Items       []cartLineDTO `json:"items"`
	CommittedAt time.Time     `json:"committedAt"`
}

func encodeCart(cart domain.Cart) (string, error) {
	return encode(mapCartToDTO(cart))
}

func decodeCart(value string) (domain.Cart, error) {
	var dtos []cartLineDTO
	if err := json.Unmarshal([]byte(value), &dtos); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	lines, err := mapCartLineDTOsToDomain(dtos)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{Lines: lines}, nil
}

func encodeWishlist(wishlist domain.Wishlist) (string, error) {
	dtos := make([]productDTO, 0, len(wishlist.Products))
	for _, p := range wishlist.Products {
		dtos = append(dtos, mapProductToDTO(p))
	}
	return encode(dtos)
}

func decodeWishlist(value string) (domain.Wishlist, error) {
	var dtos []productDTO
	if err := json.Unmarshal([]byte(value), &dtos); err != nil {
		return domain.Wishlist{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	var wishlist domain.Wishlist
	for i, dto := range dtos {
		p, err := mapProductDTOToDomain(dto)
		if err != nil {
			return domain.Wishlist{}, fmt.Errorf("wishlist[%d]: %w", i, err)
		}
		wishlist.Products = append(wishlist.Products, p)
	}
	return wishlist, nil
}

func encodeAccount(a domain.Account) (string, error) {
	return encode(accountDTO{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Budget: json.Number(a.Budget.String()),
		Spent:  json.Number(a.Spent.String()),
	})
}

func decodeAccount(value string) (domain.Account, error) {
	var dto accountDTO
	if err := json.Unmarshal([]byte(value), &dto); err != nil {
		return domain.Account{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	budget, err := parseAmount(dto.Budget)
	if err != nil {
		return domain.Account{}, fmt.Errorf("budget: %w", err)
	}
	spent, err := parseAmount(dto.Spent)
	if err != nil {
		return domain.Account{}, fmt.Errorf("spent: %w", err)
	}

	return domain.Account{
		ID:     dto.ID,
		Name:   dto.Name,
		Email:  dto.Email,
		Budget: budget,
		Spent:  spent,
	}, nil
}

func encodeCheckout(r domain.CheckoutRecord) (string, error) {
	return encode(checkoutDTO{
		ID:          r.ID,
		AccountID:   r.AccountID,
		SpendDelta:  json.Number(r.SpendDelta.String()),
		CartClear:   r.ClearCart,
		Items:       mapCartToDTO(domain.Cart{Lines: r.Items}),
		CommittedAt: r.CommittedAt.UTC(),
	})
}

func decodeCheckout(value string) (domain.CheckoutRecord, error) {
	var dto checkoutDTO
	if err := json.Unmarshal([]byte(value), &dto); err != nil {
		return domain.CheckoutRecord{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	delta, err := parseAmount(dto.SpendDelta)
	if err != nil {
		return domain.CheckoutRecord{}, fmt.Errorf("spendDelta: %w", err)
	}
	items, err := mapCartLineDTOsToDomain(dto.Items)
	if err != nil {
		return domain.CheckoutRecord{}, err
	}

	return domain.CheckoutRecord{
		ID:          dto.ID,
		AccountID:   dto.AccountID,
		SpendDelta:  delta,
		ClearCart:   dto.CartClear,
		Items:       items,
		CommittedAt: dto.CommittedAt,
	}, nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}
	return string(data), nil
}

func mapCartToDTO(cart domain.Cart) []cartLineDTO {
	dtos := make([]cartLineDTO, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		dtos = append(dtos, cartLineDTO{
			productDTO: mapProductToDTO(line.Product),
			Quantity:   line.Quantity,
		})
	}
	return dtos
}

func mapCartLineDTOsToDomain(dtos []cartLineDTO) ([]domain.CartLine, error) {
	var lines []domain.CartLine

	for i, dto := range dtos {
		p, err := mapProductDTOToDomain(dto.productDTO)
		if err != nil {
			return nil, fmt.Errorf("cart[%d]: %w", i, err)
		}
		lines = append(lines, domain.CartLine{Product: p, Quantity: dto.Quantity})
	}

	return lines, nil
}

func mapProductToDTO(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       json.Number(p.Price.String()),
		Image:       p.Image,
		Category:    p.Category,
		Rating:      p.Rating,
		Description: p.Description,
	}
}

func mapProductDTOToDomain(dto productDTO) (domain.Product, error) {
	price, err := parseAmount(dto.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price[%s] is not valid: %w", dto.Price, err)
	}

	return domain.Product{
		ID:          dto.ID,
		Name:        dto.Name,
		Price:       price,
		Image:       dto.Image,
		Category:    dto.Category,
		Rating:      dto.Rating,
		Description: dto.Description,
	}, nil
}

func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
