package enums

import "slices"

// PaymentMethod describes how a buyer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "COD"
	PaymentMethodCard    PaymentMethod = "CARD"
	PaymentMethodUPI     PaymentMethod = "UPI"
	PaymentMethodNetBank PaymentMethod = "NETBANK"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
	PaymentMethodCard,
	PaymentMethodUPI,
	PaymentMethodNetBank,
}

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCOD:     "Cash On Delivery",
	PaymentMethodCard:    "Credit/Debit Card",
	PaymentMethodUPI:     "UPI",
	PaymentMethodNetBank: "Net Banking",
}

func (p PaymentMethod) String() string {
	return string(p)
}

// Label returns the human readable name.
func (p PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[p]; ok {
		return label
	}
	return string(p)
}

// IsOnline reports whether the method is collected before delivery.
func (p PaymentMethod) IsOnline() bool {
	return p.IsValid() && p != PaymentMethodCOD
}

func (p PaymentMethod) IsValid() bool {
	return slices.Contains(validPaymentMethods, p)
}

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	return parse("payment method", validPaymentMethods, raw)
}
