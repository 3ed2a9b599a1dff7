package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// ProductSummary is the product card embedded in a wishlist row.
type ProductSummary struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// WishlistItemDTO wraps the product summary included in a wishlist row.
type WishlistItemDTO struct {
	ID        uuid.UUID      `json:"id"`
	Product   ProductSummary `json:"product"`
	CreatedAt time.Time      `json:"created_at"`
}

// Pagination carries the cursor for the next page, empty on the last one.
type Pagination struct {
	Limit      int    `json:"limit"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// WishlistItemsPageDTO returns a cursor-paginated wishlist view.
type WishlistItemsPageDTO struct {
	Items      []WishlistItemDTO `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// ToggleResultDTO reports the wishlist membership after a toggle.
type ToggleResultDTO struct {
	ProductID  uuid.UUID `json:"product_id"`
	InWishlist bool      `json:"in_wishlist"`
}

func itemFromModel(item models.WishlistItem) WishlistItemDTO {
	dto := WishlistItemDTO{ID: item.ID, CreatedAt: item.CreatedAt}
	if p := item.Product; p != nil {
		dto.Product = ProductSummary{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			Price:       p.Price,
			IsAvailable: p.IsAvailable,
		}
		if len(p.Images) > 0 {
			url := p.Images[0].URL
			dto.Product.ImageURL = &url
		}
	} else {
		dto.Product.ID = item.ProductID
	}
	return dto
}
