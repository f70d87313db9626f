package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"furnish-storefront/internal/backend"
	"furnish-storefront/internal/domain"
	"furnish-storefront/internal/repository/state"
)

var (
	// ErrNotAuthenticated gates the whole flow; checkout is sign-in only.
	ErrNotAuthenticated = errors.New("checkout requires sign-in")
	// ErrEmptyCart rejects entering review or submission with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoShippingInfo means step one was skipped or lost.
	ErrNoShippingInfo = errors.New("shipping information missing")
	// ErrPaymentRequired blocks order creation until the card payment settled.
	ErrPaymentRequired = errors.New("payment has not completed")
	// ErrUnknownMethod rejects a shipping method id outside the fixed set.
	ErrUnknownMethod = errors.New("unknown shipping method")
)

// Method is one of the fixed shipping options offered at step one. The
// surcharge stacks on top of the cart's own shipping line.
type Method struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Surcharge float64 `json:"surcharge"`
}

// Methods lists the selectable shipping options in display order.
var Methods = []Method{
	{ID: "standard", Label: "Standard delivery (5-7 business days)", Surcharge: 0},
	{ID: "express", Label: "Express delivery (2-3 business days)", Surcharge: 25},
	{ID: "white-glove", Label: "White glove delivery and assembly", Surcharge: 75},
}

func methodByID(id string) (Method, bool) {
	for _, m := range Methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// Draft is the in-flight checkout, persisted between the three steps under
// its own storage key so a reload lands the shopper back where they were.
type Draft struct {
	Shipping domain.ShippingInfo `json:"shipping"`
	MethodID string              `json:"methodId"`
	Paid     bool                `json:"paid"`
	// PaidAmount is the total the settled payment intent covered. Submit
	// refuses to post an order whose total no longer matches it.
	PaidAmount float64   `json:"paidAmount,omitempty"`
	SavedAt    time.Time `json:"savedAt"`
}

// Summary is what the review step renders: the cart, the chosen method and
// the grand total including the method surcharge.
type Summary struct {
	Cart     domain.CartState    `json:"cart"`
	Shipping domain.ShippingInfo `json:"shipping"`
	Method   Method              `json:"method"`
	Paid     bool                `json:"paid"`
	Total    float64             `json:"total"`
}

type cartStore interface {
	Load(ctx context.Context, sessionID string) domain.CartState
	Clear(ctx context.Context, sessionID string) domain.CartState
}

type orderAPI interface {
	CreateOrder(ctx context.Context, bearer string, req domain.OrderRequest) (*domain.Order, error)
	CreatePaymentIntent(ctx context.Context, req backend.PaymentIntentRequest) (*backend.PaymentIntentResult, error)
}

// Service drives the shipping -> payment -> review flow. Card data never
// passes through here; step two only forwards the processor's opaque payment
// method id.
type Service struct {
	drafts state.Repository
	carts  cartStore
	api    orderAPI
	log    zerolog.Logger
}

func New(drafts state.Repository, carts cartStore, api orderAPI, log zerolog.Logger) *Service {
	return &Service{drafts: drafts, carts: carts, api: api, log: log}
}

// SaveShipping records step one. Changing anything here resets the paid flag;
// a new address or method means a new total to charge.
func (s *Service) SaveShipping(ctx context.Context, sessionID string, sess domain.Session, info domain.ShippingInfo, methodID string) (*Draft, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if _, ok := methodByID(methodID); !ok {
		return nil, ErrUnknownMethod
	}
	if err := validateShipping(info); err != nil {
		return nil, err
	}

	draft := Draft{Shipping: info, MethodID: methodID, SavedAt: time.Now().UTC()}
	if err := s.persist(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Summary assembles the current state of the flow for the review step.
func (s *Service) Summary(ctx context.Context, sessionID string, sess domain.Session) (*Summary, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	draft, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cartState := s.carts.Load(ctx, sessionID)
	if cartState.ItemCount == 0 {
		return nil, ErrEmptyCart
	}
	method, _ := methodByID(draft.MethodID)
	return &Summary{
		Cart:     cartState,
		Shipping: draft.Shipping,
		Method:   method,
		Paid:     draft.Paid,
		Total:    cartState.Total + method.Surcharge,
	}, nil
}

// Pay runs step two against the payment processor. A settled intent marks the
// draft paid; a requiresAction result passes the client secret back for the
// hosted widget to finish, and the caller retries Pay afterwards. Declines
// surface as errors and halt the flow.
func (s *Service) Pay(ctx context.Context, sessionID string, sess domain.Session, paymentMethodID string) (*backend.PaymentIntentResult, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	summary, err := s.Summary(ctx, sessionID, sess)
	if err != nil {
		return nil, err
	}

	result, err := s.api.CreatePaymentIntent(ctx, backend.PaymentIntentRequest{
		PaymentMethodID: paymentMethodID,
		Email:           sess.User.Email,
		Amount:          summary.Total,
		UserID:          sess.User.ID,
	})
	if err != nil {
		return nil, err
	}

	if result.Success {
		draft, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		draft.Paid = true
		draft.PaidAmount = summary.Total
		if err := s.persist(ctx, sessionID, *draft); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Submit posts the order. Success clears the cart and the draft and hands
// back the confirmation; failure leaves both untouched so the shopper can
// simply resubmit.
func (s *Service) Submit(ctx context.Context, sessionID string, sess domain.Session) (*domain.Order, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	draft, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !draft.Paid {
		return nil, ErrPaymentRequired
	}
	cartState := s.carts.Load(ctx, sessionID)
	if cartState.ItemCount == 0 {
		return nil, ErrEmptyCart
	}
	method, _ := methodByID(draft.MethodID)

	// The cart changed after payment settled: the intent no longer covers
	// the order total, so the shopper has to pay again.
	if cartState.Total+method.Surcharge != draft.PaidAmount {
		draft.Paid = false
		draft.PaidAmount = 0
		if err := s.persist(ctx, sessionID, *draft); err != nil {
			return nil, err
		}
		return nil, ErrPaymentRequired
	}

	items := make([]domain.OrderItem, 0, len(cartState.Items))
	for _, it := range cartState.Items {
		items = append(items, domain.OrderItem{
			Type:        it.Type,
			ReferenceID: it.ReferenceID,
			Name:        it.Name,
			Price:       it.Price.Float64(),
			Quantity:    it.Quantity,
			Color:       it.SelectedColor,
		})
	}

	order, err := s.api.CreateOrder(ctx, sess.AccessToken, domain.OrderRequest{
		Items:          items,
		Shipping:       draft.Shipping,
		ShippingMethod: method.ID,
		PaymentMethod:  "card",
		Discount:       cartState.Discount,
		Total:          cartState.Total + method.Surcharge,
	})
	if err != nil {
		return nil, err
	}

	s.carts.Clear(ctx, sessionID)
	if err := s.drafts.Delete(ctx, sessionID, state.KeyCheckout); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("clear checkout draft")
	}
	return order, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*Draft, error) {
	raw, err := s.drafts.Get(ctx, sessionID, state.KeyCheckout)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNoShippingInfo
		}
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("corrupt checkout draft")
		return nil, ErrNoShippingInfo
	}
	return &draft, nil
}

func (s *Service) persist(ctx context.Context, sessionID string, draft Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.drafts.Set(ctx, sessionID, state.KeyCheckout, raw)
}

func validateShipping(info domain.ShippingInfo) error {
	missing := func(v string) bool { return strings.TrimSpace(v) == "" }
	if missing(info.FirstName) || missing(info.LastName) || missing(info.Email) ||
		missing(info.Street) || missing(info.City) || missing(info.PostalCode) || missing(info.Country) {
		return errors.New("shipping form incomplete")
	}
	return nil
}
