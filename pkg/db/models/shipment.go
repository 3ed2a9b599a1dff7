package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
)

// Shipment is the one-to-one delivery record for an order, looked up publicly
// by tracking code.
type Shipment struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex:shipments_order_id_key"`
	TrackingCode string               `gorm:"column:tracking_code;not null;uniqueIndex:shipments_tracking_code_key"`
	CourierName  string               `gorm:"column:courier_name;not null"`
	Status       enums.ShipmentStatus `gorm:"column:status;type:text;not null"`
	ReturnStatus enums.ReturnStatus   `gorm:"column:return_status;type:text;not null"`
	ShippedAt    *time.Time           `gorm:"column:shipped_at"`
	DeliveredAt  *time.Time           `gorm:"column:delivered_at"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Shipment) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
