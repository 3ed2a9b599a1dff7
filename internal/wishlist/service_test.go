package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{WishlistRepo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestAddItemIsIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{WishlistRepo: NewRepository(conn)})
	require.NoError(t, err)
	user := dbtest.SeedUser(t, conn, "w@example.com")
	product := dbtest.SeedProduct(t, conn, nil, "Lamp", 500, 3)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, user.ID, product.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, product.ID, second.Product.ID)

	page, err := svc.GetWishlist(ctx, user.ID, "", 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Lamp", page.Items[0].Product.Name)
	assert.Empty(t, page.Pagination.NextCursor)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestToggleTwiceReturnsToAbsent(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{WishlistRepo: NewRepository(conn)})
	require.NoError(t, err)
	user := dbtest.SeedUser(t, conn, "t@example.com")
	product := dbtest.SeedProduct(t, conn, nil, "Mug", 200, 1)
	ctx := context.Background()

	res, err := svc.Toggle(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, res.InWishlist)

	ok, err := svc.Contains(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	res, err = svc.Toggle(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, res.InWishlist)

	ok, err = svc.Contains(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveItemScopedToOwner(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{WishlistRepo: NewRepository(conn)})
	require.NoError(t, err)
	owner := dbtest.SeedUser(t, conn, "owner@example.com")
	other := dbtest.SeedUser(t, conn, "other@example.com")
	product := dbtest.SeedProduct(t, conn, nil, "Chair", 900, 2)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, owner.ID, product.ID)
	require.NoError(t, err)

	err = svc.RemoveItem(ctx, other.ID, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.RemoveItem(ctx, owner.ID, item.ID))
	ids, err := svc.ProductIDs(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestProductIDsListsSavedProducts(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{WishlistRepo: NewRepository(conn)})
	require.NoError(t, err)
	user := dbtest.SeedUser(t, conn, "ids@example.com")
	a := dbtest.SeedProduct(t, conn, nil, "A", 10, 1)
	b := dbtest.SeedProduct(t, conn, nil, "B", 20, 1)
	ctx := context.Background()

	_, err = svc.AddItem(ctx, user.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, b.ID)
	require.NoError(t, err)

	ids, err := svc.ProductIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)
}

func TestGetWishlistRejectsBadCursor(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetWishlist(context.Background(), uuid.New(), "not-base64!", 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
