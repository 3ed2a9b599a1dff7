package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/internal/repo"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// SortOrder selects the ordering of search results.
type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceLow  SortOrder = "low"
	SortPriceHigh SortOrder = "high"
	SortNewest    SortOrder = "new"
)

// SearchFilter narrows the available products returned by Search.
type SearchFilter struct {
	Query      string
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       SortOrder
}

// Repository reads and writes the catalog tables.
type Repository struct {
	repo.Base
}

// NewRepository builds a catalog repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) availableProducts(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Model(&models.Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_featured DESC").Order("created_at ASC")
		}).
		Where("products.is_available = ?", true)
}

// ListAvailableProducts returns every sellable product ordered by name.
func (r *Repository) ListAvailableProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.availableProducts(ctx).Order("products.name ASC").Find(&products).Error
	return products, err
}

// ListAvailableByCategory returns the sellable products of one category.
func (r *Repository) ListAvailableByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.availableProducts(ctx).
		Where("products.category_id = ?", categoryID).
		Order("products.name ASC").
		Find(&products).Error
	return products, err
}

// Search applies the substring, id and price filters then the requested sort.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]models.Product, error) {
	query := r.availableProducts(ctx)

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			"(LOWER(products.name) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(products.description, '')) LIKE ? ESCAPE '\\')",
			pattern, pattern,
		)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		query = query.Where("products.brand_id = ?", *filter.BrandID)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	switch filter.Sort {
	case SortPriceLow:
		query = query.Order("products.price ASC").Order("products.name ASC")
	case SortPriceHigh:
		query = query.Order("products.price DESC").Order("products.name ASC")
	case SortNewest:
		query = query.Order("products.created_at DESC").Order("products.id DESC")
	default:
		query = query.Order("products.name ASC")
	}

	var products []models.Product
	err := query.Find(&products).Error
	return products, err
}

// FindAvailableProductBySlug loads a sellable product with its relations.
func (r *Repository) FindAvailableProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.availableProducts(ctx).
		Preload("Category").
		Preload("Brand").
		Where("products.slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductByID loads any product, available or not, with its images.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Images").
		Preload("Category").
		Preload("Brand").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActiveCategories returns the categories shown in navigation.
func (r *Repository) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.DB(ctx).Where("is_active = ?", true).Order("name ASC").Find(&categories).Error
	return categories, err
}

// ListActiveBrands returns the brands shown in filters.
func (r *Repository) ListActiveBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.DB(ctx).Where("is_active = ?", true).Order("name ASC").Find(&brands).Error
	return brands, err
}

// FindActiveCategoryBySlug resolves a category page.
func (r *Repository) FindActiveCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryExists reports whether a category row exists.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// BrandExists reports whether a brand row exists.
func (r *Repository) BrandExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Brand{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateProduct inserts the product together with its images.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// SaveProduct writes every scalar column of an existing product.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("category_id", "brand_id", "name", "slug", "description", "price", "stock", "is_available", "updated_at").
		Updates(product).Error
}

// ReplaceImages swaps the product's gallery.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return tx.Create(&images).Error
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
