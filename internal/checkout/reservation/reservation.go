package reservation

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

// StockRequest asks for Qty units of a product.
type StockRequest struct {
	ProductID uuid.UUID
	Qty       int
}

// DecrementStock takes stock for every request with a guarded single-row
// update. The first product without enough stock aborts with
// INSUFFICIENT_STOCK; callers run it inside a transaction so earlier
// decrements roll back with it.
// Rows are updated in product id order so concurrent placements touching the
// same products take their row locks in the same order.
func DecrementStock(ctx context.Context, tx *gorm.DB, requests []StockRequest) error {
	ordered := slices.Clone(requests)
	slices.SortFunc(ordered, func(a, b StockRequest) int {
		return strings.Compare(a.ProductID.String(), b.ProductID.String())
	})
	for _, req := range ordered {
		if req.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		res := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND stock >= ?", req.ProductID, req.Qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Qty))
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "decrement stock")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for product %s", req.ProductID)).
				WithDetails(map[string]string{"product_id": req.ProductID.String()})
		}
	}
	return nil
}

// RestoreStock puts cancelled quantities back. Products that no longer exist
// are skipped.
func RestoreStock(ctx context.Context, tx *gorm.DB, requests []StockRequest) error {
	for _, req := range requests {
		if req.Qty <= 0 {
			continue
		}
		err := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", req.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", req.Qty)).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
		}
	}
	return nil
}
