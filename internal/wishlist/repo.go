package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/buybuddy-backend/internal/repo"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// AddItem inserts a wishlist entry and ignores duplicates. It returns the
// stored row whether it was created now or earlier.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	err := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(item).Error
	if err != nil {
		return nil, err
	}
	return r.FindByProduct(ctx, userID, productID)
}

// FindByProduct returns the user's entry for a product.
func (r *Repository) FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.Owned(ctx, userID).
		Where("product_id = ?", productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes the entry by id when it belongs to the user. It reports
// whether a row was removed.
func (r *Repository) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	res := r.OwnedRow(ctx, userID, itemID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}

// RemoveProduct deletes the user-product entry if it exists.
func (r *Repository) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.Owned(ctx, userID).
		Where("product_id = ?", productID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}

// ListItems returns a page of wishlist entries, newest first, with products.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.WishlistItem, string, error) {
	page, err := pagination.Newest(pagination.Params{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, "", err
	}

	var records []models.WishlistItem
	err = r.Owned(ctx, userID).
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_featured DESC").Order("created_at ASC")
		}).
		Scopes(page).
		Find(&records).Error
	if err != nil {
		return nil, "", err
	}
	records, next := pagination.Trim(records, limit, func(item models.WishlistItem) pagination.Cursor {
		return pagination.Cursor{CreatedAt: item.CreatedAt, ID: item.ID}
	})
	return records, next, nil
}

// ProductIDs lists every product id on the user's wishlist.
func (r *Repository) ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.Owned(ctx, userID).
		Model(&models.WishlistItem{}).
		Order("created_at DESC").
		Pluck("product_id", &ids).Error
	return ids, err
}

// Contains reports whether the product is on the user's wishlist.
func (r *Repository) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.Owned(ctx, userID).
		Model(&models.WishlistItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, err
}

// ProductExists reports whether a product row exists, available or not.
func (r *Repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error
	return count > 0, err
}
