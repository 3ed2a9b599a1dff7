package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating left against a delivered order item; one per item.
type Review struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderItemID *uuid.UUID `gorm:"column:order_item_id;type:uuid;uniqueIndex:reviews_order_item_id_key"`
	ProductID   uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	Rating      int        `gorm:"column:rating;not null"`
	Body        string     `gorm:"column:body;not null"`
	User        *User      `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
