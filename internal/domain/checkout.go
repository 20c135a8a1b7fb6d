package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle               CheckoutStatus = "IDLE"
	CheckoutStatusOrderCreated       CheckoutStatus = "ORDER_CREATED"
	CheckoutStatusPaymentIntentReady CheckoutStatus = "PAYMENT_INTENT_READY"
	CheckoutStatusPaymentSucceeded   CheckoutStatus = "PAYMENT_SUCCEEDED"
	CheckoutStatusFailed             CheckoutStatus = "FAILED"
)

// CanTransitionTo enforces the forward-only checkout flow. Failed is
// reachable from any non-terminal state; the only way out of Failed is
// an explicit retry back to Idle.
func CanTransitionTo(from, to CheckoutStatus) bool {
	switch to {
	case CheckoutStatusOrderCreated:
		return from == CheckoutStatusIdle
	case CheckoutStatusPaymentIntentReady:
		return from == CheckoutStatusOrderCreated
	case CheckoutStatusPaymentSucceeded:
		return from == CheckoutStatusPaymentIntentReady
	case CheckoutStatusFailed:
		return !from.IsTerminal()
	case CheckoutStatusIdle:
		return from == CheckoutStatusFailed
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusPaymentSucceeded || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
