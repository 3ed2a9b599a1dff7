package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// UpdateQuantityRequest sets a line's quantity; zero or less removes it.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// ProductSummary is the product shown on a cart line.
type ProductSummary struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"is_available"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// ItemDTO is one cart line priced at the product's current price.
type ItemDTO struct {
	ID       uuid.UUID       `json:"id"`
	Product  ProductSummary  `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartDTO is the full cart view.
type CartDTO struct {
	ID        *uuid.UUID      `json:"id,omitempty"`
	Items     []ItemDTO       `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// CountDTO is the badge count shown in navigation.
type CountDTO struct {
	Count int64 `json:"count"`
}

// Total sums the lines at live product prices.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemsFromModels maps cart lines for display.
func ItemsFromModels(items []models.CartItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dto := ItemDTO{
			ID:       item.ID,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		}
		if p := item.Product; p != nil {
			dto.Product = ProductSummary{
				ID:          p.ID,
				Name:        p.Name,
				Slug:        p.Slug,
				Price:       p.Price,
				Stock:       p.Stock,
				IsAvailable: p.IsAvailable,
			}
			if len(p.Images) > 0 {
				url := p.Images[0].URL
				dto.Product.ImageURL = &url
			}
		}
		out = append(out, dto)
	}
	return out
}

func cartFromModels(cart *models.Cart, items []models.CartItem) *CartDTO {
	dto := &CartDTO{
		Items:     ItemsFromModels(items),
		Total:     Total(items),
		ItemCount: len(items),
	}
	if cart != nil {
		id := cart.ID
		dto.ID = &id
	}
	return dto
}
