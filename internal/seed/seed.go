// Package seed loads a small demo catalog and an optional admin account. Every
// step looks rows up by their natural key first so reruns are harmless.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/internal/catalog"
	"github.com/angelmondragon/buybuddy-backend/pkg/config"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
	"github.com/angelmondragon/buybuddy-backend/pkg/security"
)

// Admin describes the staff account to create. An empty Email skips it.
type Admin struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Result counts the rows created by a run.
type Result struct {
	Categories int
	Brands     int
	Products   int
	Admin      bool
}

type categorySeed struct {
	Name        string
	Description string
}

type productSeed struct {
	Name        string
	Category    string
	Brand       string
	Description string
	Price       string
	Stock       int
	Image       string
}

var categories = []categorySeed{
	{Name: "Electronics", Description: "Phones, audio and accessories"},
	{Name: "Fashion", Description: "Clothing and footwear"},
	{Name: "Home & Kitchen", Description: "Everyday essentials for the home"},
}

var brands = []string{"Acme", "Northwind", "Contoso"}

var products = []productSeed{
	{Name: "Wireless Earbuds", Category: "Electronics", Brand: "Acme", Description: "Bluetooth earbuds with charging case", Price: "2499.00", Stock: 40, Image: "https://cdn.buybuddy.example/earbuds.jpg"},
	{Name: "USB-C Charger 30W", Category: "Electronics", Brand: "Contoso", Description: "Fast charger for phones and tablets", Price: "999.00", Stock: 75, Image: "https://cdn.buybuddy.example/charger.jpg"},
	{Name: "Cotton Crew T-Shirt", Category: "Fashion", Brand: "Northwind", Description: "Regular fit cotton tee", Price: "499.00", Stock: 120, Image: "https://cdn.buybuddy.example/tshirt.jpg"},
	{Name: "Running Shoes", Category: "Fashion", Brand: "Acme", Description: "Lightweight daily trainers", Price: "3299.00", Stock: 25, Image: "https://cdn.buybuddy.example/shoes.jpg"},
	{Name: "Steel Water Bottle", Category: "Home & Kitchen", Brand: "Contoso", Description: "Insulated 750ml bottle", Price: "699.00", Stock: 60, Image: "https://cdn.buybuddy.example/bottle.jpg"},
}

// Run inserts whatever part of the demo data is missing in one transaction.
func Run(ctx context.Context, conn *gorm.DB, passwords config.PasswordConfig, admin Admin) (Result, error) {
	var res Result
	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryIDs := make(map[string]uuid.UUID, len(categories))
		for _, seed := range categories {
			row, created, err := ensureCategory(tx, seed)
			if err != nil {
				return err
			}
			if created {
				res.Categories++
			}
			categoryIDs[seed.Name] = row.ID
		}

		brandIDs := make(map[string]uuid.UUID, len(brands))
		for _, name := range brands {
			row, created, err := ensureBrand(tx, name)
			if err != nil {
				return err
			}
			if created {
				res.Brands++
			}
			brandIDs[name] = row.ID
		}

		for _, seed := range products {
			categoryID, ok := categoryIDs[seed.Category]
			if !ok {
				return fmt.Errorf("unknown category %q for %s", seed.Category, seed.Name)
			}
			var brandID *uuid.UUID
			if id, ok := brandIDs[seed.Brand]; ok {
				brandID = &id
			}
			created, err := ensureProduct(tx, seed, categoryID, brandID)
			if err != nil {
				return err
			}
			if created {
				res.Products++
			}
		}

		if strings.TrimSpace(admin.Email) == "" {
			return nil
		}
		created, err := ensureAdmin(tx, admin, passwords)
		if err != nil {
			return err
		}
		res.Admin = created
		return nil
	})
	return res, err
}

func ensureCategory(tx *gorm.DB, seed categorySeed) (*models.Category, bool, error) {
	slug := catalog.Slugify(seed.Name)
	var row models.Category
	err := tx.Where("slug = ?", slug).First(&row).Error
	if err == nil {
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find category %s: %w", slug, err)
	}
	description := seed.Description
	row = models.Category{Name: seed.Name, Slug: slug, Description: &description, IsActive: true}
	if err := tx.Create(&row).Error; err != nil {
		return nil, false, fmt.Errorf("create category %s: %w", slug, err)
	}
	return &row, true, nil
}

func ensureBrand(tx *gorm.DB, name string) (*models.Brand, bool, error) {
	var row models.Brand
	err := tx.Where("name = ?", name).First(&row).Error
	if err == nil {
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find brand %s: %w", name, err)
	}
	row = models.Brand{Name: name, IsActive: true}
	if err := tx.Create(&row).Error; err != nil {
		return nil, false, fmt.Errorf("create brand %s: %w", name, err)
	}
	return &row, true, nil
}

func ensureProduct(tx *gorm.DB, seed productSeed, categoryID uuid.UUID, brandID *uuid.UUID) (bool, error) {
	slug := catalog.Slugify(seed.Name)
	var count int64
	if err := tx.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("find product %s: %w", slug, err)
	}
	if count > 0 {
		return false, nil
	}

	price, err := decimal.NewFromString(seed.Price)
	if err != nil {
		return false, fmt.Errorf("price for %s: %w", slug, err)
	}
	description := seed.Description
	product := models.Product{
		CategoryID:  categoryID,
		Name:        seed.Name,
		Slug:        slug,
		Description: &description,
		Price:       price,
		Stock:       seed.Stock,
		IsAvailable: true,
		BrandID:     brandID,
	}
	if err := tx.Omit("Category", "Brand", "Images").Create(&product).Error; err != nil {
		return false, fmt.Errorf("create product %s: %w", slug, err)
	}
	if seed.Image != "" {
		image := models.ProductImage{ProductID: product.ID, URL: seed.Image, IsFeatured: true}
		if err := tx.Create(&image).Error; err != nil {
			return false, fmt.Errorf("create image for %s: %w", slug, err)
		}
	}
	return true, nil
}

func ensureAdmin(tx *gorm.DB, admin Admin, passwords config.PasswordConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("find admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if len(admin.Password) < 8 {
		return false, fmt.Errorf("admin password must be at least 8 characters")
	}
	hash, err := security.HashPassword(admin.Password, passwords)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	role := string(enums.SystemRoleAdmin)
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		IsActive:     true,
		SystemRole:   &role,
	}
	if err := tx.Create(&user).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	if err := tx.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
		return false, fmt.Errorf("create admin profile: %w", err)
	}
	return true, nil
}
