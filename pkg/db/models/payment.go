package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
)

// Payment records how an order was settled. No gateway is involved; the
// reference is a stub generated at checkout.
type Payment struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Method     enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	Amount     decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentRef *string             `gorm:"column:payment_ref"`
	Status     enums.PaymentStatus `gorm:"column:status;type:text;not null"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
