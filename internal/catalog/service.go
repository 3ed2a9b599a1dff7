package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

// Service exposes storefront browsing and admin product management.
type Service interface {
	Home(ctx context.Context, viewer *uuid.UUID) (*HomeDTO, error)
	ProductDetail(ctx context.Context, slug string, viewer *uuid.UUID) (*ProductDetailDTO, error)
	CategoryPage(ctx context.Context, slug string) (*CategoryPageDTO, error)
	Search(ctx context.Context, query string, filter SearchFilter) (*SearchResultDTO, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDetailDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductDetailDTO, error)
}

type catalogRepository interface {
	ListAvailableProducts(ctx context.Context) ([]models.Product, error)
	ListAvailableByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	Search(ctx context.Context, filter SearchFilter) ([]models.Product, error)
	FindAvailableProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	ListActiveBrands(ctx context.Context) ([]models.Brand, error)
	FindActiveCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	BrandExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	SaveProduct(ctx context.Context, product *models.Product) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error
}

// WishlistReader answers wishlist membership questions for the viewer.
type WishlistReader interface {
	ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// ReviewReader loads reviews and review eligibility for product pages.
type ReviewReader interface {
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	FindReviewableItem(ctx context.Context, userID, productID uuid.UUID) (*uuid.UUID, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the catalog service dependencies.
type ServiceParams struct {
	DB       txRunner
	Repo     *Repository
	Wishlist WishlistReader
	Reviews  ReviewReader
}

type service struct {
	tx       txRunner
	repo     catalogRepository
	txRepo   func(tx *gorm.DB) catalogRepository
	wishlist WishlistReader
	reviews  ReviewReader
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Wishlist == nil {
		return nil, fmt.Errorf("wishlist reader required")
	}
	if params.Reviews == nil {
		return nil, fmt.Errorf("review reader required")
	}
	repo := params.Repo
	return &service{
		tx:       params.DB,
		repo:     repo,
		txRepo:   func(tx *gorm.DB) catalogRepository { return repo.WithTx(tx) },
		wishlist: params.Wishlist,
		reviews:  params.Reviews,
	}, nil
}

func (s *service) Home(ctx context.Context, viewer *uuid.UUID) (*HomeDTO, error) {
	var (
		products    []models.Product
		categories  []models.Category
		brands      []models.Brand
		wishlistIDs []uuid.UUID
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.repo.ListAvailableProducts(gctx)
		return wrapInternal(err, "list products")
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListActiveCategories(gctx)
		return wrapInternal(err, "list categories")
	})
	g.Go(func() error {
		var err error
		brands, err = s.repo.ListActiveBrands(gctx)
		return wrapInternal(err, "list brands")
	})
	if viewer != nil {
		g.Go(func() error {
			var err error
			wishlistIDs, err = s.wishlist.ProductIDs(gctx, *viewer)
			return wrapInternal(err, "list wishlist ids")
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if wishlistIDs == nil {
		wishlistIDs = []uuid.UUID{}
	}
	return &HomeDTO{
		Products:    summariesFromModels(products),
		Categories:  categoriesFromModels(categories),
		Brands:      brandsFromModels(brands),
		WishlistIDs: wishlistIDs,
	}, nil
}

func (s *service) ProductDetail(ctx context.Context, slug string, viewer *uuid.UUID) (*ProductDetailDTO, error) {
	product, err := s.repo.FindAvailableProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	dto := detailFromModel(*product)

	reviews, err := s.reviews.ListForProduct(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	if len(reviews) > 0 {
		sum := 0
		for _, rv := range reviews {
			sum += rv.Rating
			dto.Reviews = append(dto.Reviews, reviewFromModel(rv))
		}
		avg := float64(sum) / float64(len(reviews))
		dto.AverageRating = &avg
	}

	if viewer != nil {
		inWishlist, err := s.wishlist.Contains(ctx, *viewer, product.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check wishlist")
		}
		dto.InWishlist = inWishlist

		itemID, err := s.reviews.FindReviewableItem(ctx, *viewer, product.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check review eligibility")
		}
		dto.CanReview = itemID != nil
		dto.ReviewableItemID = itemID
	}

	return dto, nil
}

func (s *service) CategoryPage(ctx context.Context, slug string) (*CategoryPageDTO, error) {
	category, err := s.repo.FindActiveCategoryBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	products, err := s.repo.ListAvailableByCategory(ctx, category.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list category products")
	}
	return &CategoryPageDTO{
		Category: categoryFromModel(*category),
		Products: summariesFromModels(products),
	}, nil
}

func (s *service) Search(ctx context.Context, query string, filter SearchFilter) (*SearchResultDTO, error) {
	switch filter.Sort {
	case SortDefault, SortPriceLow, SortPriceHigh, SortNewest:
	default:
		return nil, pkgerrors.Validation("invalid search", map[string]string{"sort": "must be one of [low high new]"})
	}
	filter.Query = query

	var (
		products   []models.Product
		categories []models.Category
		brands     []models.Brand
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.repo.Search(gctx, filter)
		return wrapInternal(err, "search products")
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListActiveCategories(gctx)
		return wrapInternal(err, "list categories")
	})
	g.Go(func() error {
		var err error
		brands, err = s.repo.ListActiveBrands(gctx)
		return wrapInternal(err, "list brands")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SearchResultDTO{
		Query:      query,
		Products:   summariesFromModels(products),
		Categories: categoriesFromModels(categories),
		Brands:     brandsFromModels(brands),
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDetailDTO, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, pkgerrors.Validation("invalid product", map[string]string{"category_id": "must be a valid id"})
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	slug := Slugify(req.Name)
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug = Slugify(*req.Slug)
	}
	if slug == "" {
		return nil, pkgerrors.Validation("invalid product", map[string]string{"slug": "must contain letters or digits"})
	}
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	product := &models.Product{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		IsAvailable: isAvailable,
		Images:      imagesFromInput(req.Images),
	}
	if req.BrandID != nil && strings.TrimSpace(*req.BrandID) != "" {
		brandID, err := uuid.Parse(*req.BrandID)
		if err != nil {
			return nil, pkgerrors.Validation("invalid product", map[string]string{"brand_id": "must be a valid id"})
		}
		product.BrandID = &brandID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		if err := checkReferences(ctx, repo, product.CategoryID, product.BrandID); err != nil {
			return err
		}
		if err := repo.CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "products_slug_key") {
				return pkgerrors.New(pkgerrors.CodeDuplicate, "product slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductDetailDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		product, err := repo.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		if err := applyUpdate(product, req); err != nil {
			return err
		}
		if err := checkReferences(ctx, repo, product.CategoryID, product.BrandID); err != nil {
			return err
		}

		product.UpdatedAt = time.Now().UTC()
		if err := repo.SaveProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "products_slug_key") {
				return pkgerrors.New(pkgerrors.CodeDuplicate, "product slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
		if req.Images != nil {
			images := imagesFromInput(*req.Images)
			for i := range images {
				images[i].ProductID = product.ID
			}
			if err := repo.ReplaceImages(ctx, product.ID, images); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace images")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, productID)
}

func (s *service) loadDetail(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
	}
	return detailFromModel(*product), nil
}

func applyUpdate(product *models.Product, req UpdateProductRequest) error {
	// Relations were preloaded for the lookup; clear them so the foreign keys win.
	product.Category = nil
	product.Brand = nil

	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return pkgerrors.Validation("invalid product", map[string]string{"category_id": "must be a valid id"})
		}
		product.CategoryID = id
	}
	if req.BrandID != nil {
		if strings.TrimSpace(*req.BrandID) == "" {
			product.BrandID = nil
		} else {
			id, err := uuid.Parse(*req.BrandID)
			if err != nil {
				return pkgerrors.Validation("invalid product", map[string]string{"brand_id": "must be a valid id"})
			}
			product.BrandID = &id
		}
	}
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug := Slugify(*req.Slug)
		if slug == "" {
			return pkgerrors.Validation("invalid product", map[string]string{"slug": "must contain letters or digits"})
		}
		product.Slug = slug
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return err
		}
		product.Price = price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	return nil
}

func checkReferences(ctx context.Context, repo catalogRepository, categoryID uuid.UUID, brandID *uuid.UUID) error {
	ok, err := repo.CategoryExists(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}
	if !ok {
		return pkgerrors.Validation("invalid product", map[string]string{"category_id": "does not exist"})
	}
	if brandID == nil {
		return nil
	}
	ok, err = repo.BrandExists(ctx, *brandID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check brand")
	}
	if !ok {
		return pkgerrors.Validation("invalid product", map[string]string{"brand_id": "does not exist"})
	}
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, pkgerrors.Validation("invalid product", map[string]string{"price": "must be a non-negative amount"})
	}
	if price.Exponent() < -2 {
		return decimal.Zero, pkgerrors.Validation("invalid product", map[string]string{"price": "must have at most two decimal places"})
	}
	return price, nil
}

func imagesFromInput(inputs []ImageInput) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(inputs))
	for _, in := range inputs {
		images = append(images, models.ProductImage{URL: strings.TrimSpace(in.URL), IsFeatured: in.IsFeatured})
	}
	return images
}

func reviewFromModel(r models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		dto.AuthorName = r.User.DisplayName()
	}
	return dto
}

func wrapInternal(err error, msg string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
