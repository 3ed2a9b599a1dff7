package wishlist

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
	"github.com/angelmondragon/buybuddy-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistItemsPageDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (WishlistItemDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	Toggle(ctx context.Context, userID, productID uuid.UUID) (ToggleResultDTO, error)
	ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type service struct {
	wishlistRepo *Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	return &service{wishlistRepo: params.WishlistRepo}, nil
}

// GetWishlist returns the paginated wishlist for a user.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistItemsPageDTO, error) {
	if _, err := pagination.ParseCursor(cursor); err != nil {
		return WishlistItemsPageDTO{}, pkgerrors.Validation("invalid cursor", map[string]string{"cursor": "is invalid"})
	}
	records, next, err := s.wishlistRepo.ListItems(ctx, userID, cursor, limit)
	if err != nil {
		return WishlistItemsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist")
	}

	items := make([]WishlistItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, itemFromModel(record))
	}
	return WishlistItemsPageDTO{
		Items: items,
		Pagination: Pagination{
			Limit:      pagination.NormalizeLimit(limit),
			NextCursor: next,
		},
	}, nil
}

// AddItem saves a product; adding it again returns the existing entry.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) (WishlistItemDTO, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return WishlistItemDTO{}, err
	}
	item, err := s.wishlistRepo.AddItem(ctx, userID, productID)
	if err != nil {
		return WishlistItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
	}
	return itemFromModel(*item), nil
}

// RemoveItem deletes one of the user's entries by id.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	removed, err := s.wishlistRepo.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	if !removed {
		return pkgerrors.NotFound("wishlist item not found")
	}
	return nil
}

// Toggle removes the product when present and adds it otherwise.
func (s *service) Toggle(ctx context.Context, userID, productID uuid.UUID) (ToggleResultDTO, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return ToggleResultDTO{}, err
	}
	removed, err := s.wishlistRepo.RemoveProduct(ctx, userID, productID)
	if err != nil {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle wishlist item")
	}
	if removed {
		return ToggleResultDTO{ProductID: productID, InWishlist: false}, nil
	}
	if _, err := s.wishlistRepo.AddItem(ctx, userID, productID); err != nil {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle wishlist item")
	}
	return ToggleResultDTO{ProductID: productID, InWishlist: true}, nil
}

func (s *service) ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.wishlistRepo.ProductIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist ids")
	}
	return ids, nil
}

func (s *service) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	ok, err := s.wishlistRepo.Contains(ctx, userID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check wishlist")
	}
	return ok, nil
}

func (s *service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	ok, err := s.wishlistRepo.ProductExists(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !ok {
		return pkgerrors.NotFound("product not found")
	}
	return nil
}
