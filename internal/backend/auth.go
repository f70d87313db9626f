package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"furnish-storefront/internal/domain"
)

// Credentials is the normalized result of a token-issuing call. The backend
// has been seen returning the bearer under both "token" and "access_token";
// the rest of the system only ever sees AccessToken.
type Credentials struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type authEnvelope struct {
	User         *domain.User `json:"user"`
	Token        string       `json:"token"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (e authEnvelope) bearer() string {
	if e.Token != "" {
		return e.Token
	}
	return e.AccessToken
}

// SignIn posts credentials to the login endpoint. A 2xx response missing
// either the user or the token is a malformed envelope and fails; silently
// proceeding with half a session is worse than an error.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var env authEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", body, &env); err != nil {
		return nil, err
	}
	if env.User == nil || env.bearer() == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response missing user or token"}
	}
	return &Credentials{User: env.User, AccessToken: env.bearer(), RefreshToken: env.RefreshToken}, nil
}

// SignUp registers a new account. The backend may or may not auto-confirm;
// a token is optional here but a user is not.
func (c *Client) SignUp(ctx context.Context, email, password string, meta domain.UserMetadata) (*Credentials, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"userData": map[string]string{
			"firstName": meta.FirstName,
			"lastName":  meta.LastName,
			"phone":     meta.Phone,
		},
	}
	var env authEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", "", body, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "signup response missing user"}
	}
	return &Credentials{User: env.User, AccessToken: env.bearer(), RefreshToken: env.RefreshToken}, nil
}

// Me resolves the identity bound to a bearer token. The endpoint has two
// known envelope shapes: {"user": {...}} and {"user": {"data": {...}}}.
func (c *Client) Me(ctx context.Context, bearer string) (*domain.User, error) {
	var env struct {
		User json.RawMessage `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", bearer, nil, &env); err != nil {
		return nil, err
	}
	if len(env.User) == 0 {
		return nil, domain.ErrUnauthorized
	}

	var user domain.User
	if err := json.Unmarshal(env.User, &user); err == nil && user.ID != "" {
		return &user, nil
	}
	var nested struct {
		Data *domain.User `json:"data"`
	}
	if err := json.Unmarshal(env.User, &nested); err == nil && nested.Data != nil && nested.Data.ID != "" {
		return nested.Data, nil
	}
	return nil, domain.ErrUnauthorized
}

// GoogleAuthURL asks the backend to start the OAuth flow and returns the
// provider URL the shopper must be redirected to.
func (c *Client) GoogleAuthURL(ctx context.Context, redirectTo string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/google", "", map[string]string{"redirectTo": redirectTo}, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", &APIError{Status: http.StatusOK, Message: "oauth response missing redirect url"}
	}
	return out.URL, nil
}

// SignOut revokes the token server-side. Best effort; callers log and move on.
func (c *Client) SignOut(ctx context.Context, bearer string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", bearer, nil, nil)
}

// ForgotPassword triggers the reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": email}, nil)
}
