package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juan-JM/SmartCart-Frotend/internal/api"
	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
	"github.com/Juan-JM/SmartCart-Frotend/internal/payments"
)

type mockSales struct {
	m sync.Mutex

	sale       *api.Sale
	saleErr    error
	intent     *api.PaymentIntent
	intentErr  error
	confirmErr error

	createCalls  int
	intentCalls  int
	confirmCalls int

	lastReq    api.SaleRequest
	lastKey    string
	lastIntent string
	lastSaleID int64
}

func (s *mockSales) CreateSale(_ context.Context, req api.SaleRequest, key string) (*api.Sale, error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.createCalls++
	s.lastReq = req
	s.lastKey = key
	return s.sale, s.saleErr
}

func (s *mockSales) CreatePaymentIntent(_ context.Context, saleID int64) (*api.PaymentIntent, error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.intentCalls++
	s.lastSaleID = saleID
	return s.intent, s.intentErr
}

func (s *mockSales) ConfirmPayment(_ context.Context, paymentIntentID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.confirmCalls++
	s.lastIntent = paymentIntentID
	return s.confirmErr
}

type mockCart struct {
	m       sync.Mutex
	cart    *domain.Cart
	cleared bool
}

func (c *mockCart) Get() *domain.Cart {
	c.m.Lock()
	defer c.m.Unlock()
	if c.cleared {
		return domain.NewCart()
	}
	return c.cart.Clone()
}

func (c *mockCart) Clear(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.cleared = true
	return nil
}

type mockProfiles struct {
	profile *domain.UserProfile
}

func (p *mockProfiles) Profile() *domain.UserProfile { return p.profile }

type mockProvider struct {
	ref       string
	err       error
	calls     int
	gotSecret string
	gotMethod payments.Method
}

func (p *mockProvider) ConfirmPayment(_ context.Context, clientSecret string, method payments.Method) (string, error) {
	p.calls++
	p.gotSecret = clientSecret
	p.gotMethod = method
	if p.err != nil {
		return "", p.err
	}
	return p.ref, nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCart() *mockCart {
	cart := domain.NewCart()
	cart.Lines = []domain.CartLine{
		{ProductID: 1, Name: "P1", UnitPrice: price("10.00"), Quantity: 2},
	}
	cart.RecomputeTotal()
	return &mockCart{cart: cart}
}

func testProfiles() *mockProfiles {
	return &mockProfiles{profile: &domain.UserProfile{
		ID:       7,
		Username: "maria",
		Customer: &domain.CustomerProfile{ID: 1, Name: "Maria Lopez"},
	}}
}

func TestHappyPath(t *testing.T) {
	sales := &mockSales{
		sale:   &api.Sale{ID: 100},
		intent: &api.PaymentIntent{ClientSecret: "pi_123_secret_abc", Amount: price("20.00")},
	}
	cartSrc := testCart()
	provider := &mockProvider{ref: "pi_123"}

	var completed []int64
	co := New(sales, cartSrc, testProfiles(), provider, func(orderID int64) {
		completed = append(completed, orderID)
	}, nil)

	ctx := context.Background()
	require.NoError(t, co.CreateOrder(ctx))
	require.NoError(t, co.CreatePaymentIntent(ctx))
	require.NoError(t, co.SubmitPayment(ctx, payments.Method{Token: "pm_card_visa"}))

	state := co.State()
	assert.Equal(t, domain.CheckoutStatusPaymentSucceeded, state.Status)
	assert.Equal(t, int64(100), state.OrderID)
	assert.True(t, state.Amount.Equal(price("20.00")))

	// order payload was built from the cart and customer
	require.Len(t, sales.lastReq.Lines, 1)
	assert.Equal(t, api.SaleLine{ProductID: 1, Quantity: 2}, sales.lastReq.Lines[0])
	require.NotNil(t, sales.lastReq.CustomerID)
	assert.Equal(t, int64(1), *sales.lastReq.CustomerID)
	assert.NotEmpty(t, sales.lastKey)

	// provider got the secret, backend got the provider's reference
	assert.Equal(t, "pi_123_secret_abc", provider.gotSecret)
	assert.Equal(t, "pi_123", sales.lastIntent)

	// cart cleared, completion fired once
	assert.True(t, cartSrc.cleared)
	got := cartSrc.Get()
	assert.True(t, got.IsEmpty())
	assert.True(t, got.Total.IsZero())
	assert.Equal(t, []int64{100}, completed)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	sales := &mockSales{sale: &api.Sale{ID: 100}}
	co := New(sales, &mockCart{cart: domain.NewCart()}, testProfiles(), &mockProvider{}, nil, nil)

	err := co.CreateOrder(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, domain.CheckoutStatusIdle, co.State().Status)
	assert.Equal(t, 0, sales.createCalls)
}

func TestCreateOrder_GuestHasNoCustomer(t *testing.T) {
	sales := &mockSales{sale: &api.Sale{ID: 100}}
	co := New(sales, testCart(), &mockProfiles{}, &mockProvider{}, nil, nil)

	require.NoError(t, co.CreateOrder(context.Background()))
	assert.Nil(t, sales.lastReq.CustomerID)
}

func TestCreateOrder_MissingIDFailsWorkflow(t *testing.T) {
	sales := &mockSales{sale: &api.Sale{}} // response without an id
	cartSrc := testCart()
	co := New(sales, cartSrc, testProfiles(), &mockProvider{}, nil, nil)

	err := co.CreateOrder(context.Background())
	require.Error(t, err)

	state := co.State()
	assert.Equal(t, domain.CheckoutStatusFailed, state.Status)
	assert.Equal(t, "invalid order response", state.Reason)

	// cart untouched, no payment intent was attempted
	assert.False(t, cartSrc.cleared)
	got := cartSrc.Get()
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, 0, sales.intentCalls)
}

func TestCreatePaymentIntent_RequiresOrder(t *testing.T) {
	co := New(&mockSales{}, testCart(), testProfiles(), &mockProvider{}, nil, nil)

	err := co.CreatePaymentIntent(context.Background())
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCreatePaymentIntent_MissingSecretFails(t *testing.T) {
	sales := &mockSales{
		sale:   &api.Sale{ID: 100},
		intent: &api.PaymentIntent{},
	}
	co := New(sales, testCart(), testProfiles(), &mockProvider{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, co.CreateOrder(ctx))
	err := co.CreatePaymentIntent(ctx)
	require.Error(t, err)

	state := co.State()
	assert.Equal(t, domain.CheckoutStatusFailed, state.Status)
	assert.Equal(t, "invalid payment intent response", state.Reason)
}

func TestCreatePaymentIntent_MissingAmountFallsBackToCartTotal(t *testing.T) {
	sales := &mockSales{
		sale:   &api.Sale{ID: 100},
		intent: &api.PaymentIntent{ClientSecret: "pi_1_secret_x"},
	}
	co := New(sales, testCart(), testProfiles(), &mockProvider{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, co.CreateOrder(ctx))
	require.NoError(t, co.CreatePaymentIntent(ctx))

	assert.True(t, co.State().Amount.Equal(price("20.00")))
}

func TestSubmitPayment_ProviderDecline(t *testing.T) {
	sales := &mockSales{
		sale:   &api.Sale{ID: 100},
		intent: &api.PaymentIntent{ClientSecret: "pi_1_secret_x", Amount: price("20.00")},
	}
	cartSrc := testCart()
	provider := &mockProvider{err: &payments.CardError{Code: "card_declined", Message: "Your card was declined."}}
	co := New(sales, cartSrc, testProfiles(), provider, nil, nil)
	ctx := context.Background()

	require.NoError(t, co.CreateOrder(ctx))
	require.NoError(t, co.CreatePaymentIntent(ctx))
	err := co.SubmitPayment(ctx, payments.Method{Token: "pm_card_visa"})
	require.Error(t, err)

	state := co.State()
	assert.Equal(t, domain.CheckoutStatusFailed, state.Status)
	assert.Equal(t, "Your card was declined.", state.Reason)
	assert.False(t, cartSrc.cleared, "cart survives a failed payment")
	assert.Equal(t, 0, sales.confirmCalls)
}

func TestSubmitPayment_ConfirmEndpointFailure(t *testing.T) {
	sales := &mockSales{
		sale:       &api.Sale{ID: 100},
		intent:     &api.PaymentIntent{ClientSecret: "pi_1_secret_x", Amount: price("20.00")},
		confirmErr: &api.APIError{StatusCode: 502, Detail: "pasarela no disponible"},
	}
	cartSrc := testCart()
	co := New(sales, cartSrc, testProfiles(), &mockProvider{ref: "pi_1"}, nil, nil)
	ctx := context.Background()

	require.NoError(t, co.CreateOrder(ctx))
	require.NoError(t, co.CreatePaymentIntent(ctx))
	err := co.SubmitPayment(ctx, payments.Method{Token: "pm_card_visa"})
	require.Error(t, err)

	assert.Equal(t, domain.CheckoutStatusFailed, co.State().Status)
	assert.False(t, cartSrc.cleared)
}

func TestCompletionFiresOnce(t *testing.T) {
	sales := &mockSales{
		sale:   &api.Sale{ID: 100},
		intent: &api.PaymentIntent{ClientSecret: "pi_1_secret_x", Amount: price("20.00")},
	}
	fired := 0
	co := New(sales, testCart(), testProfiles(), &mockProvider{ref: "pi_1"}, func(int64) { fired++ }, nil)
	ctx := context.Background()

	require.NoError(t, co.Run(ctx, payments.Method{Token: "pm_card_visa"}))
	assert.Equal(t, 1, fired)

	// a re-invocation after success is rejected and must not re-fire
	err := co.SubmitPayment(ctx, payments.Method{Token: "pm_card_visa"})
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, 1, fired)
}

func TestRetry(t *testing.T) {
	sales := &mockSales{sale: &api.Sale{}}
	co := New(sales, testCart(), testProfiles(), &mockProvider{}, nil, nil)
	ctx := context.Background()

	require.Error(t, co.CreateOrder(ctx))
	require.Equal(t, domain.CheckoutStatusFailed, co.State().Status)

	firstKey := sales.lastKey
	require.NoError(t, co.Retry())

	state := co.State()
	assert.Equal(t, domain.CheckoutStatusIdle, state.Status)
	assert.Empty(t, state.Reason)
	assert.Zero(t, state.OrderID)

	// a new attempt carries a fresh idempotency key
	sales.sale = &api.Sale{ID: 200}
	require.NoError(t, co.CreateOrder(ctx))
	assert.NotEqual(t, firstKey, sales.lastKey)
}

func TestRetry_OnlyFromFailed(t *testing.T) {
	co := New(&mockSales{}, testCart(), testProfiles(), &mockProvider{}, nil, nil)
	assert.ErrorIs(t, co.Retry(), ErrIllegalTransition)
}

func TestNoAutomaticRetries(t *testing.T) {
	sales := &mockSales{saleErr: &api.APIError{StatusCode: 500}}
	co := New(sales, testCart(), testProfiles(), &mockProvider{}, nil, nil)

	require.Error(t, co.CreateOrder(context.Background()))
	assert.Equal(t, 1, sales.createCalls, "a failed step is not re-attempted")
}
