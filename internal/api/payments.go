package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// PaymentIntent is the provider handle for collecting a payment:
// the client secret drives the provider-side confirmation and Amount is
// the amount to charge.
type PaymentIntent struct {
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
}

// CreatePaymentIntent asks the backend to open a payment intent for the
// given sale.
func (c *Client) CreatePaymentIntent(ctx context.Context, saleID int64) (*PaymentIntent, error) {
	req := map[string]int64{"nota_venta_id": saleID}

	var intent PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/pagos/crear-intento/", nil, req, &intent); err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &intent, nil
}

// ConfirmPayment reports a provider-confirmed payment back to the
// backend so the order is marked paid.
func (c *Client) ConfirmPayment(ctx context.Context, paymentIntentID string) error {
	req := map[string]string{"payment_intent_id": paymentIntentID}

	if err := c.do(ctx, http.MethodPost, "/pagos/confirmar-pago/", nil, req, nil); err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	return nil
}
