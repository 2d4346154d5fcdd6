package enums

import "fmt"

// PaymentState tracks the crypto payment flow for a checkout session.
type PaymentState string

const (
	PaymentStateSelecting   PaymentState = "SELECTING"
	PaymentStateUnconnected PaymentState = "UNCONNECTED"
	PaymentStateConnected   PaymentState = "CONNECTED"
	PaymentStateCompleted   PaymentState = "COMPLETED"
)

var validPaymentStates = []PaymentState{
	PaymentStateSelecting,
	PaymentStateUnconnected,
	PaymentStateConnected,
	PaymentStateCompleted,
}

// String implements fmt.Stringer.
func (p PaymentState) String() string {
	return string(p)
}

// IsValid reports whether the state is recognized.
func (p PaymentState) IsValid() bool {
	for _, candidate := range validPaymentStates {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state admits no further transitions.
func (p PaymentState) IsTerminal() bool {
	return p == PaymentStateCompleted
}

// ParsePaymentState converts a raw string into a PaymentState.
func ParsePaymentState(value string) (PaymentState, error) {
	for _, candidate := range validPaymentStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment state %q", value)
}
