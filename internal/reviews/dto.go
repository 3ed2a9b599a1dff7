package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// ReviewRequest is the create and edit payload.
type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Body   string `json:"review" validate:"required,notblank,max=4000"`
}

// ReviewDTO is a review as returned to its author.
type ReviewDTO struct {
	ID          uuid.UUID  `json:"id"`
	OrderItemID *uuid.UUID `json:"order_item_id,omitempty"`
	ProductID   uuid.UUID  `json:"product_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Rating      int        `json:"rating"`
	Body        string     `json:"review"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func fromModel(r models.Review) ReviewDTO {
	return ReviewDTO{
		ID:          r.ID,
		OrderItemID: r.OrderItemID,
		ProductID:   r.ProductID,
		UserID:      r.UserID,
		Rating:      r.Rating,
		Body:        r.Body,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
