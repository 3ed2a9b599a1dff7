package enums

import "slices"

// ShipmentStatus is the courier-facing status shown on tracking pages.
type ShipmentStatus string

const (
	ShipmentStatusPlaced         ShipmentStatus = "PLACED"
	ShipmentStatusProcessing     ShipmentStatus = "PROCESSING"
	ShipmentStatusShipped        ShipmentStatus = "SHIPPED"
	ShipmentStatusOutForDelivery ShipmentStatus = "OUT_FOR_DELIVERY"
	ShipmentStatusDelivered      ShipmentStatus = "DELIVERED"
	ShipmentStatusCancelled      ShipmentStatus = "CANCELLED"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPlaced,
	ShipmentStatusProcessing,
	ShipmentStatusShipped,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusCancelled,
}

var shipmentLabels = map[ShipmentStatus]string{
	ShipmentStatusPlaced:         "Preparing for dispatch",
	ShipmentStatusProcessing:     "Processing",
	ShipmentStatusShipped:        "Shipped",
	ShipmentStatusOutForDelivery: "Out for Delivery",
	ShipmentStatusDelivered:      "Delivered",
	ShipmentStatusCancelled:      "Order Cancelled",
}

// TrackingStages lists the stages rendered on an order's progress bar.
var TrackingStages = []ShipmentStatus{
	ShipmentStatusPlaced,
	ShipmentStatusProcessing,
	ShipmentStatusShipped,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
}

func (s ShipmentStatus) String() string {
	return string(s)
}

// Label returns the customer facing description.
func (s ShipmentStatus) Label() string {
	if label, ok := shipmentLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s ShipmentStatus) IsValid() bool {
	return slices.Contains(validShipmentStatuses, s)
}

// ShipmentStatusFor maps an order status to the shipment status that mirrors it.
func ShipmentStatusFor(status OrderStatus) ShipmentStatus {
	switch status {
	case OrderStatusProcessing:
		return ShipmentStatusProcessing
	case OrderStatusShipped:
		return ShipmentStatusShipped
	case OrderStatusOutForDelivery:
		return ShipmentStatusOutForDelivery
	case OrderStatusDelivered:
		return ShipmentStatusDelivered
	case OrderStatusCancelled:
		return ShipmentStatusCancelled
	default:
		return ShipmentStatusPlaced
	}
}
