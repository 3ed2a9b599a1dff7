package reviews

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/buybuddy-backend/internal/repo"
	"github.com/angelmondragon/buybuddy-backend/pkg/db"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

// Service manages reviews left against delivered order items.
type Service interface {
	Create(ctx context.Context, userID, orderItemID uuid.UUID, req ReviewRequest) (*ReviewDTO, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, req ReviewRequest) (*ReviewDTO, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the review service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID, orderItemID uuid.UUID, req ReviewRequest) (*ReviewDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	item, err := s.repo.FindDeliveredItem(ctx, userID, orderItemID)
	if err != nil {
		return nil, repo.Lookup(err, "order item")
	}
	if item.ProductID == nil {
		return nil, pkgerrors.NotFound("product no longer available")
	}

	exists, err := s.repo.ExistsForOrderItem(ctx, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing review")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "you have already reviewed this item")
	}

	itemID := item.ID
	review := &models.Review{
		OrderItemID: &itemID,
		ProductID:   *item.ProductID,
		UserID:      userID,
		Rating:      req.Rating,
		Body:        strings.TrimSpace(req.Body),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "reviews_order_item_id_key") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "you have already reviewed this item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}

	dto := fromModel(*review)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, reviewID uuid.UUID, req ReviewRequest) (*ReviewDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	review, err := s.repo.FindOwned(ctx, userID, reviewID)
	if err != nil {
		return nil, repo.Lookup(err, "review")
	}

	review.Rating = req.Rating
	review.Body = strings.TrimSpace(req.Body)
	review.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
	}

	dto := fromModel(*review)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, userID, reviewID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
	}
	if !deleted {
		return pkgerrors.NotFound("review not found")
	}
	return nil
}

func validateRequest(req ReviewRequest) error {
	fields := map[string]string{}
	if req.Rating < 1 || req.Rating > 5 {
		fields["rating"] = "must be between 1 and 5"
	}
	if strings.TrimSpace(req.Body) == "" {
		fields["review"] = "is required"
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("invalid review", fields)
	}
	return nil
}
