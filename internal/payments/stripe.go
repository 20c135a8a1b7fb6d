package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultStripeBaseURL = "https://api.stripe.com"

// StripeProvider confirms payment intents against the Stripe API using
// the storefront's publishable key.
type StripeProvider struct {
	baseURL string
	key     string
	client  *http.Client
}

// NewStripeProvider builds a provider. baseURL overrides the Stripe API
// host for tests; pass "" for the real one.
func NewStripeProvider(publishableKey, baseURL string, httpClient *http.Client) *StripeProvider {
	if baseURL == "" {
		baseURL = defaultStripeBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &StripeProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     publishableKey,
		client:  httpClient,
	}
}

type stripeIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ConfirmPayment runs the confirm call for the intent behind
// clientSecret. A provider-declined payment comes back as *CardError;
// anything else is a transport or protocol failure.
func (p *StripeProvider) ConfirmPayment(ctx context.Context, clientSecret string, method Method) (string, error) {
	intentID, err := IntentIDFromSecret(clientSecret)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("payment_method", method.Token)
	form.Set("client_secret", clientSecret)

	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s/confirm", p.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.key)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("confirm payment: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read confirm response: %w", err)
	}

	var intent stripeIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		return "", fmt.Errorf("decode confirm response (status %d): %w", resp.StatusCode, err)
	}

	if intent.Error != nil {
		if intent.Error.Type == "card_error" {
			return "", &CardError{Code: intent.Error.Code, Message: intent.Error.Message}
		}
		return "", fmt.Errorf("provider error: %s", intent.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("confirm payment: unexpected status %d", resp.StatusCode)
	}
	if intent.Status != "succeeded" {
		return "", fmt.Errorf("payment in unexpected state: %s", intent.Status)
	}
	return intent.ID, nil
}
