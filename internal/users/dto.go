package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

const dateLayout = "2006-01-02"

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	SystemRole  *string    `json:"system_role,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProfileDTO combines the user identity with the optional profile details.
type ProfileDTO struct {
	User        *UserDTO  `json:"user"`
	Phone       *string   `json:"phone,omitempty"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// UpdateProfileRequest replaces the editable profile fields. Omitted optional
// fields are cleared.
type UpdateProfileRequest struct {
	FirstName   string  `json:"first_name" validate:"required,notblank,max=150"`
	LastName    string  `json:"last_name" validate:"required,notblank,max=150"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	SystemRole   *string
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		SystemRole:  u.SystemRole,
		CreatedAt:   u.CreatedAt,
	}
}

func profileFromModels(u *models.User, p *models.Profile) *ProfileDTO {
	dto := &ProfileDTO{User: FromModel(u)}
	if p == nil {
		return dto
	}
	dto.Phone = p.Phone
	dto.AvatarURL = p.AvatarURL
	dto.JoinedAt = p.JoinedAt
	if p.DateOfBirth != nil {
		formatted := time.Time(*p.DateOfBirth).Format(dateLayout)
		dto.DateOfBirth = &formatted
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		FirstName:    strings.TrimSpace(c.FirstName),
		LastName:     strings.TrimSpace(c.LastName),
		IsActive:     isActive,
		SystemRole:   c.SystemRole,
	}
}
