package cart

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
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)
	return svc, conn
}

func TestViewWithoutCart(t *testing.T) {
	svc, _ := newTestService(t)
	view, err := svc.View(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, view.ID)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestAddIncrementsAndTotals(t *testing.T) {
	svc, conn := newTestService(t)
	user := dbtest.SeedUser(t, conn, "cart@example.com")
	p := dbtest.SeedProduct(t, conn, nil, "Pen", 500, 10)
	q := dbtest.SeedProduct(t, conn, nil, "Pad", 120, 10)
	ctx := context.Background()

	_, err := svc.Add(ctx, user.ID, p.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, user.ID, p.ID)
	require.NoError(t, err)
	view, err := svc.Add(ctx, user.ID, q.ID)
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(1000).Equal(view.Items[0].Subtotal))
	assert.True(t, decimal.NewFromInt(1120).Equal(view.Total))

	count, err := svc.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)

	var carts int64
	require.NoError(t, conn.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}

func TestAddRejectsUnavailableAndMissing(t *testing.T) {
	svc, conn := newTestService(t)
	user := dbtest.SeedUser(t, conn, "cart2@example.com")
	p := dbtest.SeedProduct(t, conn, nil, "Old", 10, 0)
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", p.ID).Update("is_available", false).Error)
	ctx := context.Background()

	_, err := svc.Add(ctx, user.ID, p.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, user.ID, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	svc, conn := newTestService(t)
	owner := dbtest.SeedUser(t, conn, "owner@example.com")
	other := dbtest.SeedUser(t, conn, "other@example.com")
	p := dbtest.SeedProduct(t, conn, nil, "Cup", 50, 10)
	q := dbtest.SeedProduct(t, conn, nil, "Plate", 70, 10)
	ctx := context.Background()

	_, err := svc.Add(ctx, owner.ID, p.ID)
	require.NoError(t, err)
	view, err := svc.Add(ctx, owner.ID, q.ID)
	require.NoError(t, err)
	cupID := view.Items[0].ID
	plateID := view.Items[1].ID

	_, err = svc.UpdateQuantity(ctx, other.ID, cupID, 3)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	view, err = svc.UpdateQuantity(ctx, owner.ID, cupID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(220).Equal(view.Total))

	view, err = svc.UpdateQuantity(ctx, owner.ID, cupID, 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, plateID, view.Items[0].ID)

	view, err = svc.Remove(ctx, owner.ID, plateID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.NotNil(t, view.ID)

	_, err = svc.Remove(ctx, owner.ID, plateID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
