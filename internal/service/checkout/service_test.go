package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnish-storefront/internal/backend"
	"furnish-storefront/internal/domain"
	"furnish-storefront/internal/pricing"
)

type memoryDrafts struct {
	data map[string][]byte
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{data: make(map[string][]byte)}
}

func (m *memoryDrafts) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	v, ok := m.data[sessionID+"/"+key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memoryDrafts) Set(_ context.Context, sessionID, key string, value []byte) error {
	m.data[sessionID+"/"+key] = value
	return nil
}

func (m *memoryDrafts) Delete(_ context.Context, sessionID, key string) error {
	if _, ok := m.data[sessionID+"/"+key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.data, sessionID+"/"+key)
	return nil
}

type stubCart struct {
	state   domain.CartState
	cleared bool
}

func (s *stubCart) Load(_ context.Context, _ string) domain.CartState {
	if s.cleared {
		return domain.CartState{Items: []domain.LineItem{}}
	}
	return s.state
}

func (s *stubCart) Clear(_ context.Context, _ string) domain.CartState {
	s.cleared = true
	return domain.CartState{Items: []domain.LineItem{}}
}

type stubOrderAPI struct {
	order      *domain.Order
	orderErr   error
	intent     *backend.PaymentIntentResult
	intentErr  error
	lastOrder  domain.OrderRequest
	lastIntent backend.PaymentIntentRequest
}

func (s *stubOrderAPI) CreateOrder(_ context.Context, _ string, req domain.OrderRequest) (*domain.Order, error) {
	s.lastOrder = req
	return s.order, s.orderErr
}

func (s *stubOrderAPI) CreatePaymentIntent(_ context.Context, req backend.PaymentIntentRequest) (*backend.PaymentIntentResult, error) {
	s.lastIntent = req
	return s.intent, s.intentErr
}

func twoChairCart() domain.CartState {
	items := []domain.LineItem{{
		ID:          "product_p1_1_ab",
		Type:        domain.ItemTypeProduct,
		ReferenceID: "p1",
		Name:        "Walnut Lounge Chair",
		Price:       pricing.NewValue(100),
		Quantity:    2,
	}}
	return domain.CartState{
		Items:     items,
		Subtotal:  200,
		Shipping:  50,
		Total:     250,
		ItemCount: 2,
	}
}

func authed() domain.Session {
	return domain.Session{User: &domain.User{ID: "u1", Email: "a@b.c"}, AccessToken: "tok"}
}

func shippingInfo() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName:  "Ada",
		LastName:   "Byrne",
		Email:      "a@b.c",
		Street:     "1 Elm St",
		City:       "Portland",
		PostalCode: "97201",
		Country:    "US",
	}
}

func newTestService(drafts *memoryDrafts, carts *stubCart, api *stubOrderAPI) *Service {
	return New(drafts, carts, api, zerolog.Nop())
}

func TestSaveShippingRequiresAuth(t *testing.T) {
	svc := newTestService(newMemoryDrafts(), &stubCart{state: twoChairCart()}, &stubOrderAPI{})
	_, err := svc.SaveShipping(context.Background(), "sess", domain.Session{}, shippingInfo(), "standard")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSaveShippingRejectsUnknownMethod(t *testing.T) {
	svc := newTestService(newMemoryDrafts(), &stubCart{state: twoChairCart()}, &stubOrderAPI{})
	_, err := svc.SaveShipping(context.Background(), "sess", authed(), shippingInfo(), "teleport")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestSummaryAddsMethodSurcharge(t *testing.T) {
	svc := newTestService(newMemoryDrafts(), &stubCart{state: twoChairCart()}, &stubOrderAPI{})
	ctx := context.Background()
	_, err := svc.SaveShipping(ctx, "sess", authed(), shippingInfo(), "express")
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, "sess", authed())
	require.NoError(t, err)
	assert.Equal(t, 275.0, sum.Total, "cart total 250 plus express surcharge 25")
	assert.False(t, sum.Paid)
}

func TestPaySettledMarksDraftPaid(t *testing.T) {
	api := &stubOrderAPI{intent: &backend.PaymentIntentResult{Success: true}}
	svc := newTestService(newMemoryDrafts(), &stubCart{state: twoChairCart()}, api)
	ctx := context.Background()
	_, err := svc.SaveShipping(ctx, "sess", authed(), shippingInfo(), "standard")
	require.NoError(t, err)

	res, err := svc.Pay(ctx, "sess", authed(), "pm_123")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 250.0, api.lastIntent.Amount)
	assert.Equal(t, "pm_123", api.lastIntent.PaymentMethodID)

	sum, err := svc.Summary(ctx, "sess", authed())
	require.NoError(t, err)
	assert.True(t, sum.Paid)
}

func TestPayRequiresActionDoesNotMarkPaid(t *testing.T) {
	api := &stubOrderAPI{intent: &backend.PaymentIntentResult{RequiresAction: true, ClientSecret: "cs_1"}}
	svc := newTestService(newMemoryDrafts(), &stubCart{state: twoChairCart()}, api)
	ctx := context.Background()
	_, err := svc.SaveShipping(ctx, "sess", authed(), shippingInfo(), "standard")
	require.NoError(t, err)

	res, err := svc.Pay(ctx, "sess", authed(), "pm_123")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", res.ClientSecret)

	_, err = svc.Submit(ctx, "sess", authed())
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestSubmitClearsCartAndDraft(t *testing.T) {
	carts := &stubCart{state: twoChairCart()}
	api := &stubOrderAPI{
		intent: &backend.PaymentIntentResult{Success: true},
		order:  &domain.Order{ID: "ord-1", Status: "confirmed"},
	}
	svc := newTestService(newMemoryDrafts(), carts, api)
	ctx := context.Background()

	_, err := svc.SaveShipping(ctx, "sess", authed(), shippingInfo(), "white-glove")
	require.NoError(t, err)
	_, err = svc.Pay(ctx, "sess", authed(), "pm_123")
	require.NoError(t, err)

	order, err := svc.Submit(ctx, "sess", authed())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, carts.cleared)
	assert.Equal(t, 325.0, api.lastOrder.Total)
	assert.Equal(t, "white-glove", api.lastOrder.ShippingMethod)
	require.Len(t, api.lastOrder.Items, 1)
	assert.Equal(t, 100.0, api.lastOrder.Items[0].Price)
}

func TestSubmitFailureLeavesCartUntouched(t *testing.T) {
	carts := &stubCart{state: twoChairCart()}
	api := &stubOrderAPI{
		intent:   &backend.PaymentIntentResult{Success: true},
		orderErr: errors.New("inventory conflict"),
	}
	svc := newTestService(newMemoryDrafts(), carts, api)
	ctx := context.Background()

	_, err := svc.SaveShipping(ctx, "sess", authed(), shippingInfo(), "standard")
	require.NoError(t, err)
	_, err = svc.Pay(ctx, "sess", authed(), "pm_123")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "sess", authed())
	require.Error(t, err)
	assert.False(t, carts.cleared, "failed submission must not clear the cart")
}

func TestSubmitAfterCartChangeRequiresNewPayment(t *testing.T) {
	carts := &stubCart{state: twoChairCart()}
	api := &stubOrderAPI{
		intent: &backend.PaymentIntentResult{Success: true},
		order:  &domain.Order{ID: "ord-1"},
	}
	svc := newTestService(newMemoryDrafts(), carts, api)
	ctx := context.Background()

	_, err := svc.SaveShipping(ctx, "sess", authed(), shippingInfo(), "standard")
	require.NoError(t, err)
	_, err = svc.Pay(ctx, "sess", authed(), "pm_123")
	require.NoError(t, err)

	// Another chair lands in the cart after the intent settled for 250.
	carts.state.Items[0].Quantity = 3
	carts.state.Subtotal = 300
	carts.state.Total = 350
	carts.state.ItemCount = 3

	_, err = svc.Submit(ctx, "sess", authed())
	assert.ErrorIs(t, err, ErrPaymentRequired, "settled intent covered 250, order now totals 350")
	assert.False(t, carts.cleared)

	sum, err := svc.Summary(ctx, "sess", authed())
	require.NoError(t, err)
	assert.False(t, sum.Paid, "stale payment flag must not survive the cart change")
}

func TestSubmitWithoutDraft(t *testing.T) {
	svc := newTestService(newMemoryDrafts(), &stubCart{state: twoChairCart()}, &stubOrderAPI{})
	_, err := svc.Submit(context.Background(), "sess", authed())
	assert.ErrorIs(t, err, ErrNoShippingInfo)
}
