package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod describes how a customer intends to settle an order. It is recorded, never charged.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
	PaymentMethodOnline,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod. Empty input defaults to cash on delivery.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PaymentMethodCOD, nil
	}
	for _, candidate := range validPaymentMethods {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// OnlinePaymentType narrows an online payment.
type OnlinePaymentType string

const (
	OnlinePaymentCard       OnlinePaymentType = "card"
	OnlinePaymentUPI        OnlinePaymentType = "upi"
	OnlinePaymentNetBanking OnlinePaymentType = "netbanking"
	OnlinePaymentWallet     OnlinePaymentType = "wallet"
)

var validOnlinePaymentTypes = []OnlinePaymentType{
	OnlinePaymentCard,
	OnlinePaymentUPI,
	OnlinePaymentNetBanking,
	OnlinePaymentWallet,
}

// String implements fmt.Stringer.
func (o OnlinePaymentType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OnlinePaymentType.
func (o OnlinePaymentType) IsValid() bool {
	for _, candidate := range validOnlinePaymentTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOnlinePaymentType converts raw input into an OnlinePaymentType. Empty input defaults to card.
func ParseOnlinePaymentType(value string) (OnlinePaymentType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return OnlinePaymentCard, nil
	}
	for _, candidate := range validOnlinePaymentTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid online payment type %q", value)
}

// PaymentLabel renders the payment description stored on the order.
func PaymentLabel(method PaymentMethod, online OnlinePaymentType) string {
	if method == PaymentMethodOnline {
		return fmt.Sprintf("Online Payment (%s)", online)
	}
	return "Cash on Delivery"
}
