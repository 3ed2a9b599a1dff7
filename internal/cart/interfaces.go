package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service
// and by checkout when it drains a cart.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	EnsureCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	FindOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error)
	IncrementItem(ctx context.Context, cartID, productID uuid.UUID) error
	SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	CountItems(ctx context.Context, userID uuid.UUID) (int64, error)
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}
