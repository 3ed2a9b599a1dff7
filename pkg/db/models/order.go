package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
)

// Order is the immutable record of a placed checkout. Shipping fields are a
// snapshot of the address at placement and are never re-derived.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	AddressID        *uuid.UUID        `gorm:"column:address_id;type:uuid"`
	PaymentID        *uuid.UUID        `gorm:"column:payment_id;type:uuid"`
	TotalAmount      decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null"`
	ShippingFullName string            `gorm:"column:shipping_full_name;not null"`
	ShippingPhone    string            `gorm:"column:shipping_phone;not null"`
	ShippingAddress  string            `gorm:"column:shipping_address;not null"`
	Payment          *Payment          `gorm:"foreignKey:PaymentID"`
	Items            []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipment         *Shipment         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}
