package backend

import (
	"context"
	"net/http"

	"furnish-storefront/internal/domain"
)

// CreateOrder posts the assembled checkout payload. Requires a bearer; the
// backend owns inventory, pricing verification and persistence.
func (c *Client) CreateOrder(ctx context.Context, bearer string, req domain.OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", bearer, req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "order response missing id"}
	}
	return &out, nil
}

// PaymentIntentRequest captures the card payment attempt. The payment method
// id comes from the processor's hosted widget; raw card data never passes
// through this service.
type PaymentIntentRequest struct {
	PaymentMethodID string  `json:"paymentMethodId"`
	Email           string  `json:"email"`
	Amount          float64 `json:"amount"`
	UserID          string  `json:"userID"`
}

// PaymentIntentResult is the processor's answer: either settled, or pending
// further client-side action with the given client secret.
type PaymentIntentResult struct {
	Success        bool   `json:"success"`
	RequiresAction bool   `json:"requiresAction"`
	ClientSecret   string `json:"clientSecret,omitempty"`
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResult, error) {
	var out PaymentIntentResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/create-payment-intent", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
