package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// CategoryDTO is the navigation shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
}

// BrandDTO is the filter shape of a brand.
type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// ImageDTO is one gallery entry.
type ImageDTO struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	IsFeatured bool      `json:"is_featured"`
}

// ProductSummaryDTO is the card shown in product grids.
type ProductSummaryDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"is_available"`
	CategoryID  uuid.UUID       `json:"category_id"`
	BrandID     *uuid.UUID      `json:"brand_id,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReviewDTO is a review as shown on the product page.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductDetailDTO is the product page payload.
type ProductDetailDTO struct {
	ProductSummaryDTO
	Description *string      `json:"description,omitempty"`
	Category    *CategoryDTO `json:"category,omitempty"`
	Brand       *BrandDTO    `json:"brand,omitempty"`
	Images      []ImageDTO   `json:"images"`
	Reviews     []ReviewDTO  `json:"reviews"`
	// AverageRating is nil when the product has no reviews.
	AverageRating *float64 `json:"average_rating,omitempty"`
	InWishlist    bool     `json:"in_wishlist"`
	CanReview     bool     `json:"can_review"`
	// ReviewableItemID is the delivered, unreviewed order item the caller can review.
	ReviewableItemID *uuid.UUID `json:"reviewable_item_id,omitempty"`
}

// HomeDTO is the landing page payload.
type HomeDTO struct {
	Products    []ProductSummaryDTO `json:"products"`
	Categories  []CategoryDTO       `json:"categories"`
	Brands      []BrandDTO          `json:"brands"`
	WishlistIDs []uuid.UUID         `json:"wishlist_ids"`
}

// CategoryPageDTO lists a category and its products.
type CategoryPageDTO struct {
	Category CategoryDTO         `json:"category"`
	Products []ProductSummaryDTO `json:"products"`
}

// SearchResultDTO echoes the query alongside the filter options.
type SearchResultDTO struct {
	Query      string              `json:"query"`
	Products   []ProductSummaryDTO `json:"products"`
	Categories []CategoryDTO       `json:"categories"`
	Brands     []BrandDTO          `json:"brands"`
}

// ImageInput is one gallery entry supplied by an admin.
type ImageInput struct {
	URL        string `json:"url" validate:"required,url"`
	IsFeatured bool   `json:"is_featured"`
}

// CreateProductRequest is the admin payload for a new product. Slug defaults
// to a slugified name.
type CreateProductRequest struct {
	CategoryID  string       `json:"category_id" validate:"required,uuid"`
	BrandID     *string      `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	Name        string       `json:"name" validate:"required,notblank,max=200"`
	Slug        *string      `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description *string      `json:"description,omitempty"`
	Price       string       `json:"price" validate:"required"`
	Stock       int          `json:"stock" validate:"gte=0"`
	IsAvailable *bool        `json:"is_available,omitempty"`
	Images      []ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

// UpdateProductRequest patches a product; nil fields are left untouched.
type UpdateProductRequest struct {
	CategoryID  *string       `json:"category_id,omitempty" validate:"omitempty,uuid"`
	BrandID     *string       `json:"brand_id,omitempty" validate:"omitempty"`
	Name        *string       `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Slug        *string       `json:"slug,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string       `json:"description,omitempty"`
	Price       *string       `json:"price,omitempty"`
	Stock       *int          `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsAvailable *bool         `json:"is_available,omitempty"`
	Images      *[]ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

func categoryFromModel(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

func brandFromModel(b models.Brand) BrandDTO {
	return BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		LogoURL:     b.LogoURL,
		Description: b.Description,
	}
}

func summaryFromModel(p models.Product) ProductSummaryDTO {
	dto := ProductSummaryDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       p.Price,
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable,
		CategoryID:  p.CategoryID,
		BrandID:     p.BrandID,
		CreatedAt:   p.CreatedAt,
	}
	if len(p.Images) > 0 {
		url := p.Images[0].URL
		for _, img := range p.Images {
			if img.IsFeatured {
				url = img.URL
				break
			}
		}
		dto.ImageURL = &url
	}
	return dto
}

func summariesFromModels(products []models.Product) []ProductSummaryDTO {
	out := make([]ProductSummaryDTO, 0, len(products))
	for _, p := range products {
		out = append(out, summaryFromModel(p))
	}
	return out
}

func categoriesFromModels(categories []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryFromModel(c))
	}
	return out
}

func brandsFromModels(brands []models.Brand) []BrandDTO {
	out := make([]BrandDTO, 0, len(brands))
	for _, b := range brands {
		out = append(out, brandFromModel(b))
	}
	return out
}

func detailFromModel(p models.Product) *ProductDetailDTO {
	dto := &ProductDetailDTO{
		ProductSummaryDTO: summaryFromModel(p),
		Description:       p.Description,
		Images:            make([]ImageDTO, 0, len(p.Images)),
		Reviews:           []ReviewDTO{},
	}
	if p.Category != nil {
		c := categoryFromModel(*p.Category)
		dto.Category = &c
	}
	if p.Brand != nil {
		b := brandFromModel(*p.Brand)
		dto.Brand = &b
	}
	for _, img := range p.Images {
		dto.Images = append(dto.Images, ImageDTO{ID: img.ID, URL: img.URL, IsFeatured: img.IsFeatured})
	}
	return dto
}
