package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// DefaultCountry fills addresses saved without a country.
const DefaultCountry = "India"

// AddressRequest is the create and edit payload.
type AddressRequest struct {
	FullName    string `json:"full_name" validate:"required,notblank,max=100"`
	Phone       string `json:"phone" validate:"required,notblank,max=15"`
	AddressLine string `json:"address_line" validate:"required,notblank,max=255"`
	City        string `json:"city" validate:"required,notblank,max=100"`
	State       string `json:"state" validate:"required,notblank,max=100"`
	Country     string `json:"country,omitempty" validate:"omitempty,max=100"`
	PostalCode  string `json:"postal_code" validate:"required,notblank,max=10"`
	IsDefault   bool   `json:"is_default"`
}

// AddressDTO is a saved address.
type AddressDTO struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	PostalCode  string    `json:"postal_code"`
	IsDefault   bool      `json:"is_default"`
	FullAddress string    `json:"full_address"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromModel maps a stored address to its API shape.
func FromModel(a models.Address) AddressDTO {
	return AddressDTO{
		ID:          a.ID,
		FullName:    a.FullName,
		Phone:       a.Phone,
		AddressLine: a.AddressLine,
		City:        a.City,
		State:       a.State,
		Country:     a.Country,
		PostalCode:  a.PostalCode,
		IsDefault:   a.IsDefault,
		FullAddress: a.FullAddress(),
		CreatedAt:   a.CreatedAt,
	}
}

// FromModels maps a list of stored addresses.
func FromModels(addresses []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, FromModel(a))
	}
	return out
}
