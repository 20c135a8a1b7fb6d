// Package checkout turns a non-empty cart into a confirmed order
// through a forward-only state machine: create the order record, open a
// payment intent, confirm the payment with the provider, report it back
// and clear the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-JM/SmartCart-Frotend/internal/api"
	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
	"github.com/Juan-JM/SmartCart-Frotend/internal/payments"
)

var (
	// ErrEmptyCart is returned by CreateOrder when the cart holds no
	// lines; the workflow stays in Idle.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrIllegalTransition is returned when a step is invoked out of
	// order. The workflow state is left unchanged.
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// SalesAPI is the backend surface the orchestrator needs. *api.Client
// satisfies it.
type SalesAPI interface {
	CreateSale(ctx context.Context, req api.SaleRequest, idempotencyKey string) (*api.Sale, error)
	CreatePaymentIntent(ctx context.Context, saleID int64) (*api.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) error
}

// CartSource reads and clears the cart. *cart.Store satisfies it.
type CartSource interface {
	Get() *domain.Cart
	Clear(ctx context.Context) error
}

// ProfileSource resolves the current customer. *session.Manager
// satisfies it. A nil profile or a profile without a customer record
// produces a guest order.
type ProfileSource interface {
	Profile() *domain.UserProfile
}

// State is a read snapshot of the workflow.
type State struct {
	Status       domain.CheckoutStatus
	OrderID      int64
	ClientSecret string
	Amount       decimal.Decimal
	Reason       string
}

// Checkout owns one checkout attempt. It reads the cart and session but
// never mutates them, except for clearing the cart once payment has
// succeeded. Not safe for concurrent step invocations by design: the
// workflow is one logical flow.
type Checkout struct {
	mu             sync.Mutex
	status         domain.CheckoutStatus
	orderID        int64
	clientSecret   string
	amount         decimal.Decimal
	reason         string
	idempotencyKey string

	sales    SalesAPI
	cart     CartSource
	profiles ProfileSource
	provider payments.Provider

	onComplete   func(orderID int64)
	completeOnce sync.Once

	logger *slog.Logger
}

// New starts a fresh attempt in Idle. onComplete, which may be nil, is
// invoked exactly once when payment succeeds; re-invocations of any
// step cannot fire it again.
func New(sales SalesAPI, cartSrc CartSource, profiles ProfileSource, provider payments.Provider, onComplete func(orderID int64), logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checkout{
		status:         domain.CheckoutStatusIdle,
		idempotencyKey: uuid.NewString(),
		sales:          sales,
		cart:           cartSrc,
		profiles:       profiles,
		provider:       provider,
		onComplete:     onComplete,
		logger:         logger,
	}
}

// State returns the current workflow snapshot.
func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Status:       c.status,
		OrderID:      c.orderID,
		ClientSecret: c.clientSecret,
		Amount:       c.amount,
		Reason:       c.reason,
	}
}

// CreateOrder posts the order record built from the cart and the
// resolved customer (nil customer id for guests).
func (c *Checkout) CreateOrder(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusOrderCreated) {
		return ErrIllegalTransition
	}

	snapshot := c.cart.Get()
	if snapshot.IsEmpty() {
		return ErrEmptyCart
	}

	req := api.NewSaleRequest(snapshot, c.profiles.Profile().CustomerID())
	sale, err := c.sales.CreateSale(ctx, req, c.idempotencyKey)
	if err != nil {
		return c.fail(err.Error(), err)
	}
	if sale == nil || sale.ID == 0 {
		err := errors.New("invalid order response")
		return c.fail(err.Error(), err)
	}

	c.orderID = sale.ID
	c.status = domain.CheckoutStatusOrderCreated
	c.logger.Info("order created", "order_id", sale.ID)
	return nil
}

// CreatePaymentIntent opens the provider payment intent for the created
// order. A response without a client secret fails the workflow; a
// missing amount falls back to the cart total.
func (c *Checkout) CreatePaymentIntent(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusPaymentIntentReady) {
		return ErrIllegalTransition
	}

	intent, err := c.sales.CreatePaymentIntent(ctx, c.orderID)
	if err != nil {
		return c.fail(err.Error(), err)
	}
	if intent == nil || intent.ClientSecret == "" {
		err := errors.New("invalid payment intent response")
		return c.fail(err.Error(), err)
	}

	c.clientSecret = intent.ClientSecret
	c.amount = intent.Amount
	if c.amount.IsZero() {
		c.amount = c.cart.Get().Total
	}
	c.status = domain.CheckoutStatusPaymentIntentReady
	c.logger.Info("payment intent ready", "order_id", c.orderID, "amount", c.amount)
	return nil
}

// SubmitPayment confirms the intent with the provider and reports the
// provider's reference back to the backend. On success the cart is
// cleared and the completion callback fires once.
func (c *Checkout) SubmitPayment(ctx context.Context, method payments.Method) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusPaymentSucceeded) {
		return ErrIllegalTransition
	}

	ref, err := c.provider.ConfirmPayment(ctx, c.clientSecret, method)
	if err != nil {
		return c.fail(err.Error(), err)
	}

	if err := c.sales.ConfirmPayment(ctx, ref); err != nil {
		return c.fail(err.Error(), err)
	}

	c.status = domain.CheckoutStatusPaymentSucceeded
	c.logger.Info("payment succeeded", "order_id", c.orderID, "payment_ref", ref)

	if err := c.cart.Clear(ctx); err != nil {
		// the order is paid; a stale snapshot is an annoyance, not a
		// failure of the workflow
		c.logger.Warn("clearing cart after payment failed", "error", err)
	}

	c.completeOnce.Do(func() {
		if c.onComplete != nil {
			c.onComplete(c.orderID)
		}
	})
	return nil
}

// Retry resets a failed attempt back to Idle with a fresh idempotency
// key. No other state allows going backwards.
func (c *Checkout) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusIdle) {
		return ErrIllegalTransition
	}

	c.status = domain.CheckoutStatusIdle
	c.orderID = 0
	c.clientSecret = ""
	c.amount = decimal.Zero
	c.reason = ""
	c.idempotencyKey = uuid.NewString()
	return nil
}

// Run drives the whole workflow in order. Any step failure stops the
// run; the workflow is left in Failed with the reason set.
func (c *Checkout) Run(ctx context.Context, method payments.Method) error {
	if err := c.CreateOrder(ctx); err != nil {
		return err
	}
	if err := c.CreatePaymentIntent(ctx); err != nil {
		return err
	}
	return c.SubmitPayment(ctx, method)
}

// fail records the failure reason and moves to Failed. Callers hold the
// lock.
func (c *Checkout) fail(reason string, err error) error {
	if domain.CanTransitionTo(c.status, domain.CheckoutStatusFailed) {
		c.status = domain.CheckoutStatusFailed
		c.reason = reason
	}
	c.logger.Warn("checkout failed", "status", c.status, "reason", reason)
	return fmt.Errorf("checkout: %w", err)
}
