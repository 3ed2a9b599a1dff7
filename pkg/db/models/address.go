package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a saved shipping destination. At most one per user is the default.
type Address struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:addresses_user_id_idx"`
	FullName    string    `gorm:"column:full_name;not null"`
	Phone       string    `gorm:"column:phone;not null"`
	AddressLine string    `gorm:"column:address_line;not null"`
	City        string    `gorm:"column:city;not null"`
	State       string    `gorm:"column:state;not null"`
	Country     string    `gorm:"column:country;not null"`
	PostalCode  string    `gorm:"column:postal_code;not null"`
	IsDefault   bool      `gorm:"column:is_default;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// FullAddress renders the single-line form copied onto orders.
func (a Address) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s, %s - %s", a.AddressLine, a.City, a.State, a.Country, a.PostalCode)
}
