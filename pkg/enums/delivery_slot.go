package enums

import (
	"fmt"
	"strings"
)

// DeliverySlot is the customer's preferred delivery window.
type DeliverySlot string

const (
	DeliverySlotMorning   DeliverySlot = "morning"
	DeliverySlotAfternoon DeliverySlot = "afternoon"
	DeliverySlotEvening   DeliverySlot = "evening"
)

var deliverySlotLabels = map[DeliverySlot]string{
	DeliverySlotMorning:   "Morning (7:00 AM - 10:00 AM)",
	DeliverySlotAfternoon: "Afternoon (12:00 PM - 3:00 PM)",
	DeliverySlotEvening:   "Evening (5:00 PM - 8:00 PM)",
}

// String implements fmt.Stringer.
func (d DeliverySlot) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliverySlot.
func (d DeliverySlot) IsValid() bool {
	_, ok := deliverySlotLabels[d]
	return ok
}

// Label returns the display text stored on orders.
func (d DeliverySlot) Label() string {
	return deliverySlotLabels[d]
}

// ParseDeliverySlot converts raw input into a DeliverySlot. Empty input defaults to morning.
func ParseDeliverySlot(value string) (DeliverySlot, error) {
	normalized := DeliverySlot(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return DeliverySlotMorning, nil
	}
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid delivery slot %q", value)
}
