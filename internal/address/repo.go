package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/internal/repo"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// Repository persists the address book.
type Repository struct {
	repo.Base
}

// NewRepository binds an address repository to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// ListByUser returns the default address first, then newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := r.Owned(ctx, userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&addresses).Error
	return addresses, err
}

// FindOwned loads one address of the user.
func (r *Repository) FindOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.OwnedRow(ctx, userID, addressID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// CountByUser returns how many addresses the user has saved.
func (r *Repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.Owned(ctx, userID).Model(&models.Address{}).Count(&count).Error
	return count, err
}

// FindNewest returns the most recently created address of the user.
func (r *Repository) FindNewest(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.Owned(ctx, userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// Create inserts an address.
func (r *Repository) Create(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Create(address).Error
}

// Save writes the editable columns of an address.
func (r *Repository) Save(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("id = ?", address.ID).
		Select("full_name", "phone", "address_line", "city", "state", "country", "postal_code", "is_default", "updated_at").
		Updates(address).Error
}

// ClearDefault unsets the default flag on every address of the user.
func (r *Repository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.Owned(ctx, userID).
		Model(&models.Address{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

// MarkDefault sets the default flag on one address.
func (r *Repository) MarkDefault(ctx context.Context, addressID uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("id = ?", addressID).
		Update("is_default", true).Error
}

// Delete removes an address of the user.
func (r *Repository) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return r.OwnedRow(ctx, userID, addressID).Delete(&models.Address{}).Error
}
