package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// SeedUser inserts an active customer.
func SeedUser(t testing.TB, conn *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedCategory inserts an active category.
func SeedCategory(t testing.TB, conn *gorm.DB, name, slug string) models.Category {
	t.Helper()
	category := models.Category{Name: name, Slug: slug, IsActive: true}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

// SeedProduct inserts an available product priced in whole rupees. A fresh
// category is created when categoryID is nil.
func SeedProduct(t testing.TB, conn *gorm.DB, categoryID *uuid.UUID, name string, price int64, stock int) models.Product {
	t.Helper()
	if categoryID == nil {
		suffix := uuid.NewString()[:8]
		category := SeedCategory(t, conn, "Category "+suffix, "category-"+suffix)
		categoryID = &category.ID
	}
	product := models.Product{
		CategoryID:  *categoryID,
		Name:        name,
		Slug:        "product-" + uuid.NewString()[:8],
		Price:       decimal.NewFromInt(price),
		Stock:       stock,
		IsAvailable: true,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

// SeedAddress inserts an address for the user.
func SeedAddress(t testing.TB, conn *gorm.DB, userID uuid.UUID, isDefault bool) models.Address {
	t.Helper()
	address := models.Address{
		UserID:      userID,
		FullName:    "Asha Rao",
		Phone:       "9999999999",
		AddressLine: "12 MG Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		Country:     "India",
		PostalCode:  "560001",
		IsDefault:   isDefault,
	}
	if err := conn.Create(&address).Error; err != nil {
		t.Fatalf("seed address: %v", err)
	}
	return address
}
