package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/buybuddy-backend/internal/address"
	"github.com/angelmondragon/buybuddy-backend/internal/cart"
	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
)

// BeginRequest selects the address and payment method for the next order.
type BeginRequest struct {
	AddressID     uuid.UUID `json:"address" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,payment_method"`
}

// IntentDTO is the checkout selection as shown to its owner.
type IntentDTO struct {
	AddressID          uuid.UUID           `json:"address_id"`
	PaymentMethod      enums.PaymentMethod `json:"payment_method"`
	PaymentMethodLabel string              `json:"payment_method_label"`
	PaymentRef         *string             `json:"payment_ref,omitempty"`
	ExpiresAt          time.Time           `json:"expires_at"`
}

// SummaryDTO is everything the checkout page needs.
type SummaryDTO struct {
	Items     []cart.ItemDTO       `json:"items"`
	Total     decimal.Decimal      `json:"total"`
	Addresses []address.AddressDTO `json:"addresses"`
	Intent    *IntentDTO           `json:"intent,omitempty"`
}

// PaymentDTO describes the amount due for the current intent.
type PaymentDTO struct {
	Method      enums.PaymentMethod `json:"method"`
	MethodLabel string              `json:"method_label"`
	Amount      decimal.Decimal     `json:"amount"`
	PaymentRef  *string             `json:"payment_ref,omitempty"`
	Paid        bool                `json:"paid"`
}

// PlacementDTO identifies a freshly placed order.
type PlacementDTO struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Status        enums.OrderStatus   `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	TrackingCode  string              `json:"tracking_code"`
	CourierName   string              `json:"courier_name"`
}

func intentToDTO(intent *Intent) *IntentDTO {
	if intent == nil {
		return nil
	}
	return &IntentDTO{
		AddressID:          intent.AddressID,
		PaymentMethod:      intent.PaymentMethod,
		PaymentMethodLabel: intent.PaymentMethod.Label(),
		PaymentRef:         intent.PaymentRef,
		ExpiresAt:          intent.ExpiresAt,
	}
}
