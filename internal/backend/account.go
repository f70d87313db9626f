package backend

import (
	"context"
	"net/http"
	"net/url"

	"furnish-storefront/internal/domain"
)

// Addresses lists the saved addresses for the authenticated shopper.
func (c *Client) Addresses(ctx context.Context, bearer string) ([]domain.Address, error) {
	var out struct {
		Addresses []domain.Address `json:"addresses"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/addresses", bearer, nil, &out); err != nil {
		return nil, err
	}
	return out.Addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, bearer string, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	if err := c.doJSON(ctx, http.MethodPost, "/api/addresses", bearer, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, bearer, id string, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	if err := c.doJSON(ctx, http.MethodPut, "/api/addresses/"+url.PathEscape(id), bearer, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, bearer, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/addresses/"+url.PathEscape(id), bearer, nil, nil)
}

func (c *Client) SetDefaultAddress(ctx context.Context, bearer, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/addresses/"+url.PathEscape(id)+"/default", bearer, nil, nil)
}

func (c *Client) Profile(ctx context.Context, bearer string) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile", bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, bearer, userID string, p domain.Profile) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.doJSON(ctx, http.MethodPut, "/api/profile/"+url.PathEscape(userID), bearer, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSupportTicket(ctx context.Context, bearer string, t domain.SupportTicket) (*domain.SupportTicket, error) {
	var out domain.SupportTicket
	if err := c.doJSON(ctx, http.MethodPost, "/api/support/tickets", bearer, t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendEmail fires a transactional email through the backend relay. Used by
// the newsletter subscription confirmation.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	payload := map[string]string{"to": to, "subject": subject, "body": body}
	return c.doJSON(ctx, http.MethodPost, "/api/send-email", "", payload, nil)
}
