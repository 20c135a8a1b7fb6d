// Package payments talks to the external card-payment provider. The
// backend opens a payment intent; this package runs the client-side
// confirmation against the provider with the intent's client secret.
package payments

import (
	"context"
	"fmt"
	"strings"
)

// Method is the collected payment method, referenced by the provider's
// opaque token (e.g. a tokenized card).
type Method struct {
	Token string
}

// Provider confirms a payment intent and returns the provider's payment
// reference on success.
type Provider interface {
	ConfirmPayment(ctx context.Context, clientSecret string, method Method) (string, error)
}

// CardError is a provider-reported payment failure (declined card,
// insufficient funds). Its message is end-user-safe and is surfaced
// verbatim.
type CardError struct {
	Code    string
	Message string
}

func (e *CardError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment failed: %s", e.Code)
}

// IntentIDFromSecret extracts the payment-intent id from a client
// secret of the form "pi_xxx_secret_yyy".
func IntentIDFromSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret")
	if !found || id == "" {
		return "", fmt.Errorf("malformed client secret")
	}
	return id, nil
}
