package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/buybuddy-backend/pkg/config"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/dbtest"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/security"
)

var testPasswords = config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func TestRunIsIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()
	admin := Admin{Email: " Admin@BuyBuddy.example ", Password: "Sup3r$ecret", FirstName: "Store", LastName: "Admin"}

	first, err := Run(ctx, conn, testPasswords, admin)
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: len(categories), Brands: len(brands), Products: len(products), Admin: true}, first)

	second, err := Run(ctx, conn, testPasswords, admin)
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	var productCount, imageCount int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&productCount).Error)
	require.NoError(t, conn.Model(&models.ProductImage{}).Count(&imageCount).Error)
	assert.EqualValues(t, len(products), productCount)
	assert.EqualValues(t, len(products), imageCount)

	var kitchen models.Category
	require.NoError(t, conn.Where("slug = ?", "home-kitchen").First(&kitchen).Error)
	assert.True(t, kitchen.IsActive)

	var user models.User
	require.NoError(t, conn.Where("email = ?", "admin@buybuddy.example").First(&user).Error)
	require.NotNil(t, user.SystemRole)
	assert.Equal(t, "admin", *user.SystemRole)
	ok, err := security.VerifyPassword("Sup3r$ecret", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunSkipsAdminWithoutEmail(t *testing.T) {
	conn := dbtest.Open(t)

	res, err := Run(context.Background(), conn, testPasswords, Admin{})
	require.NoError(t, err)
	assert.False(t, res.Admin)

	var users int64
	require.NoError(t, conn.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestRunRejectsShortAdminPassword(t *testing.T) {
	conn := dbtest.Open(t)

	_, err := Run(context.Background(), conn, testPasswords, Admin{Email: "ops@buybuddy.example", Password: "short"})
	require.Error(t, err)

	var products int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&products).Error)
	assert.Zero(t, products, "failed run must roll back")
}
