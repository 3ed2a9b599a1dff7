package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile holds optional personal details for a user.
type Profile struct {
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	Phone       *string         `gorm:"column:phone"`
	DateOfBirth *datatypes.Date `gorm:"column:date_of_birth"`
	AvatarURL   *string         `gorm:"column:avatar_url"`
	JoinedAt    time.Time       `gorm:"column:joined_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
