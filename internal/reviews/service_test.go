package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/dbtest"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

func seedOrderItem(t *testing.T, conn *gorm.DB, userID uuid.UUID, product models.Product, status enums.OrderStatus) models.OrderItem {
	t.Helper()
	order := models.Order{
		UserID:           userID,
		TotalAmount:      product.Price,
		Status:           status,
		ShippingFullName: "Asha Rao",
		ShippingPhone:    "9999999999",
		ShippingAddress:  "12 MG Road, Bengaluru, Karnataka, India - 560001",
	}
	require.NoError(t, conn.Create(&order).Error)
	productID := product.ID
	item := models.OrderItem{
		OrderID:     order.ID,
		ProductID:   &productID,
		ProductName: product.Name,
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(100),
	}
	require.NoError(t, conn.Create(&item).Error)
	return item
}

func newService(t *testing.T, conn *gorm.DB) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateReviewOnceForDeliveredItem(t *testing.T) {
	conn := dbtest.Open(t)
	svc, repo := newService(t, conn)
	user := dbtest.SeedUser(t, conn, "r@example.com")
	product := dbtest.SeedProduct(t, conn, nil, "Kettle", 100, 4)
	item := seedOrderItem(t, conn, user.ID, product, enums.OrderStatusDelivered)
	ctx := context.Background()

	reviewable, err := repo.FindReviewableItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.NotNil(t, reviewable)
	assert.Equal(t, item.ID, *reviewable)

	review, err := svc.Create(ctx, user.ID, item.ID, ReviewRequest{Rating: 5, Body: " great "})
	require.NoError(t, err)
	assert.Equal(t, "great", review.Body)
	assert.Equal(t, product.ID, review.ProductID)

	_, err = svc.Create(ctx, user.ID, item.ID, ReviewRequest{Rating: 4, Body: "again"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDuplicate))

	reviewable, err = repo.FindReviewableItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Nil(t, reviewable)

	listed, err := repo.ListForProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].User)
	assert.Equal(t, "Test User", listed[0].User.DisplayName())
}

func TestCreateReviewRequiresDeliveredOwnedItem(t *testing.T) {
	conn := dbtest.Open(t)
	svc, _ := newService(t, conn)
	owner := dbtest.SeedUser(t, conn, "owner@example.com")
	other := dbtest.SeedUser(t, conn, "other@example.com")
	product := dbtest.SeedProduct(t, conn, nil, "Kettle", 100, 4)
	pending := seedOrderItem(t, conn, owner.ID, product, enums.OrderStatusShipped)
	delivered := seedOrderItem(t, conn, owner.ID, product, enums.OrderStatusDelivered)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, pending.ID, ReviewRequest{Rating: 3, Body: "ok"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, other.ID, delivered.ID, ReviewRequest{Rating: 3, Body: "ok"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateReviewValidatesRating(t *testing.T) {
	conn := dbtest.Open(t)
	svc, _ := newService(t, conn)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), ReviewRequest{Rating: 6, Body: ""})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "rating")
	assert.Contains(t, details, "review")
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	conn := dbtest.Open(t)
	svc, _ := newService(t, conn)
	owner := dbtest.SeedUser(t, conn, "owner@example.com")
	other := dbtest.SeedUser(t, conn, "other@example.com")
	product := dbtest.SeedProduct(t, conn, nil, "Kettle", 100, 4)
	item := seedOrderItem(t, conn, owner.ID, product, enums.OrderStatusDelivered)
	ctx := context.Background()

	review, err := svc.Create(ctx, owner.ID, item.ID, ReviewRequest{Rating: 2, Body: "meh"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, review.ID, ReviewRequest{Rating: 1, Body: "bad"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, other.ID, review.ID), pkgerrors.CodeNotFound))

	updated, err := svc.Update(ctx, owner.ID, review.ID, ReviewRequest{Rating: 4, Body: "better"})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	require.NoError(t, svc.Delete(ctx, owner.ID, review.ID))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, owner.ID, review.ID), pkgerrors.CodeNotFound))
}
