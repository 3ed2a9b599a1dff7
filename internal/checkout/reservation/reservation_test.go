package reservation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/dbtest"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.Stock
}

func TestDecrementStock(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	ctx := context.Background()
	productA := dbtest.SeedProduct(t, db, nil, "A", 10, 5)
	productB := dbtest.SeedProduct(t, db, nil, "B", 10, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return DecrementStock(ctx, tx, []StockRequest{
			{ProductID: productA.ID, Qty: 3},
			{ProductID: productB.ID, Qty: 1},
		})
	})
	if err != nil {
		t.Fatalf("decrement transaction: %v", err)
	}

	if got := stockOf(t, db, productA.ID); got != 2 {
		t.Fatalf("expected stock 2 for A, got %d", got)
	}
	if got := stockOf(t, db, productB.ID); got != 0 {
		t.Fatalf("expected stock 0 for B, got %d", got)
	}
}

func TestDecrementStockRollsBackOnShortage(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	ctx := context.Background()
	productA := dbtest.SeedProduct(t, db, nil, "A", 10, 5)
	productB := dbtest.SeedProduct(t, db, nil, "B", 10, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return DecrementStock(ctx, tx, []StockRequest{
			{ProductID: productA.ID, Qty: 3},
			{ProductID: productB.ID, Qty: 2},
		})
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got := stockOf(t, db, productA.ID); got != 5 {
		t.Fatalf("expected rollback to keep stock 5, got %d", got)
	}
}

func TestDecrementStockInvalidQty(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	product := dbtest.SeedProduct(t, db, nil, "A", 10, 5)

	err := DecrementStock(context.Background(), db, []StockRequest{{ProductID: product.ID, Qty: 0}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRestoreStockSkipsMissingProducts(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	product := dbtest.SeedProduct(t, db, nil, "A", 10, 5)

	err := RestoreStock(context.Background(), db, []StockRequest{
		{ProductID: product.ID, Qty: 2},
		{ProductID: uuid.New(), Qty: 4},
	})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := stockOf(t, db, product.ID); got != 7 {
		t.Fatalf("expected stock 7, got %d", got)
	}
}
