package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/internal/repo"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
)

// Repository persists product reviews and answers eligibility queries.
type Repository struct {
	repo.Base
}

// NewRepository builds a review repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindDeliveredItem loads an order item owned by userID whose order was delivered.
func (r *Repository) FindDeliveredItem(ctx context.Context, userID, orderItemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.DB(ctx).
		Joins("JOIN orders o ON o.id = order_items.order_id").
		Where("order_items.id = ? AND o.user_id = ? AND o.status = ?", orderItemID, userID, enums.OrderStatusDelivered).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsForOrderItem reports whether the order item already has a review.
func (r *Repository) ExistsForOrderItem(ctx context.Context, orderItemID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Review{}).Where("order_item_id = ?", orderItemID).Count(&count).Error
	return count > 0, err
}

// FindReviewableItem returns a delivered, unreviewed order item of userID for
// the product, or nil when there is none.
func (r *Repository) FindReviewableItem(ctx context.Context, userID, productID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders o ON o.id = order_items.order_id").
		Where("o.user_id = ? AND o.status = ? AND order_items.product_id = ?", userID, enums.OrderStatusDelivered, productID).
		Where("NOT EXISTS (SELECT 1 FROM reviews rv WHERE rv.order_item_id = order_items.id)").
		Order("order_items.created_at ASC").
		Limit(1).
		Pluck("order_items.id", &ids).Error
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return &ids[0], nil
}

// Create inserts a review.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Create(review).Error
}

// FindOwned loads a review by id when it belongs to userID.
func (r *Repository) FindOwned(ctx context.Context, userID, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.OwnedRow(ctx, userID, reviewID).
		Preload("User").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update writes the rating and body of a review.
func (r *Repository) Update(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).
		Model(&models.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":     review.Rating,
			"body":       review.Body,
			"updated_at": review.UpdatedAt,
		}).Error
}

// Delete removes a review owned by userID and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	res := r.OwnedRow(ctx, userID, reviewID).Delete(&models.Review{})
	return res.RowsAffected > 0, res.Error
}

// ListForProduct returns the product's reviews, newest first, with authors.
func (r *Repository) ListForProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.DB(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
