package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
)

// AdvanceRequest moves an order along its fulfillment path. An empty status
// means the next state.
type AdvanceRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,order_status"`
}

// ItemDTO is one purchased line at its point-in-time price.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentDTO describes how the order was settled.
type PaymentDTO struct {
	ID          uuid.UUID           `json:"id"`
	Method      enums.PaymentMethod `json:"method"`
	MethodLabel string              `json:"method_label"`
	Amount      decimal.Decimal     `json:"amount"`
	PaymentRef  *string             `json:"payment_ref,omitempty"`
	Status      enums.PaymentStatus `json:"status"`
}

// ShipmentDTO is the delivery record.
type ShipmentDTO struct {
	ID           uuid.UUID            `json:"id"`
	TrackingCode string               `json:"tracking_code"`
	CourierName  string               `json:"courier_name"`
	Status       enums.ShipmentStatus `json:"status"`
	StatusLabel  string               `json:"status_label"`
	ReturnStatus enums.ReturnStatus   `json:"return_status"`
	ShippedAt    *time.Time           `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time           `json:"delivered_at,omitempty"`
}

// StageDTO is one step of the tracking progress bar.
type StageDTO struct {
	Status    enums.ShipmentStatus `json:"status"`
	Label     string               `json:"label"`
	Completed bool                 `json:"completed"`
	Current   bool                 `json:"current"`
}

// OrderSummaryDTO is a row in the order history.
type OrderSummaryDTO struct {
	ID           uuid.UUID         `json:"id"`
	Status       enums.OrderStatus `json:"status"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	ItemCount    int               `json:"item_count"`
	TrackingCode string            `json:"tracking_code,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// OrderDetailDTO is the full order view for its owner or an admin.
type OrderDetailDTO struct {
	ID               uuid.UUID         `json:"id"`
	Status           enums.OrderStatus `json:"status"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	ShippingFullName string            `json:"shipping_full_name"`
	ShippingPhone    string            `json:"shipping_phone"`
	ShippingAddress  string            `json:"shipping_address"`
	Items            []ItemDTO         `json:"items"`
	Payment          *PaymentDTO       `json:"payment,omitempty"`
	Shipment         *ShipmentDTO      `json:"shipment,omitempty"`
	Stages           []StageDTO        `json:"stages"`
	CanCancel        bool              `json:"can_cancel"`
	CanReturn        bool              `json:"can_return"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Pagination carries the cursor for the next page, empty on the last one.
type Pagination struct {
	Limit      int    `json:"limit"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// OrderList is a page of the order history.
type OrderList struct {
	Orders     []OrderSummaryDTO `json:"orders"`
	Pagination Pagination        `json:"pagination"`
}

// ReturnResultDTO reports the shipment after a return request.
type ReturnResultDTO struct {
	Shipment         ShipmentDTO `json:"shipment"`
	AlreadyRequested bool        `json:"already_requested"`
}

// TrackingItemDTO is an item as shown to anonymous trackers.
type TrackingItemDTO struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// TrackingDTO is the public tracking view. It carries no address or phone.
type TrackingDTO struct {
	OrderID   uuid.UUID         `json:"order_id"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []TrackingItemDTO `json:"items"`
	Shipment  ShipmentDTO       `json:"shipment"`
	Stages    []StageDTO        `json:"stages"`
}

// Invoice is a rendered invoice document.
type Invoice struct {
	Filename string
	Body     []byte
}

func itemsFromModels(items []models.OrderItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return out
}

func paymentFromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:          p.ID,
		Method:      p.Method,
		MethodLabel: p.Method.Label(),
		Amount:      p.Amount,
		PaymentRef:  p.PaymentRef,
		Status:      p.Status,
	}
}

func shipmentFromModel(s models.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:           s.ID,
		TrackingCode: s.TrackingCode,
		CourierName:  s.CourierName,
		Status:       s.Status,
		StatusLabel:  s.Status.Label(),
		ReturnStatus: s.ReturnStatus,
		ShippedAt:    s.ShippedAt,
		DeliveredAt:  s.DeliveredAt,
	}
}

// stagesFor marks every stage up to the shipment's current one as completed.
// A cancelled shipment completes nothing.
func stagesFor(status enums.ShipmentStatus) []StageDTO {
	current := -1
	for i, stage := range enums.TrackingStages {
		if stage == status {
			current = i
		}
	}
	stages := make([]StageDTO, 0, len(enums.TrackingStages))
	for i, stage := range enums.TrackingStages {
		stages = append(stages, StageDTO{
			Status:    stage,
			Label:     stage.Label(),
			Completed: current >= 0 && i <= current,
			Current:   i == current,
		})
	}
	return stages
}

func summaryFromModel(o models.Order) OrderSummaryDTO {
	dto := OrderSummaryDTO{
		ID:          o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		ItemCount:   len(o.Items),
		CreatedAt:   o.CreatedAt,
	}
	if o.Shipment != nil {
		dto.TrackingCode = o.Shipment.TrackingCode
	}
	return dto
}

func detailFromModel(o models.Order) *OrderDetailDTO {
	dto := &OrderDetailDTO{
		ID:               o.ID,
		Status:           o.Status,
		TotalAmount:      o.TotalAmount,
		ShippingFullName: o.ShippingFullName,
		ShippingPhone:    o.ShippingPhone,
		ShippingAddress:  o.ShippingAddress,
		Items:            itemsFromModels(o.Items),
		Payment:          paymentFromModel(o.Payment),
		Stages:           stagesFor(enums.ShipmentStatusFor(o.Status)),
		CanCancel:        !o.Status.IsTerminal(),
		CreatedAt:        o.CreatedAt,
	}
	if o.Shipment != nil {
		shipment := shipmentFromModel(*o.Shipment)
		dto.Shipment = &shipment
		dto.Stages = stagesFor(o.Shipment.Status)
		dto.CanReturn = o.Shipment.Status == enums.ShipmentStatusDelivered &&
			o.Shipment.ReturnStatus == enums.ReturnStatusNone
	}
	return dto
}

func trackingFromModel(o models.Order) *TrackingDTO {
	dto := &TrackingDTO{
		OrderID:   o.ID,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		Items:     make([]TrackingItemDTO, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, TrackingItemDTO{ProductName: item.ProductName, Quantity: item.Quantity})
	}
	if o.Shipment != nil {
		dto.Shipment = shipmentFromModel(*o.Shipment)
		dto.Stages = stagesFor(o.Shipment.Status)
	} else {
		dto.Stages = stagesFor(enums.ShipmentStatusFor(o.Status))
	}
	return dto
}
