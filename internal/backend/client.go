package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNetwork marks transport-level failures (connection refused, DNS, body
// read errors). Callers surface these as a generic network message, never the
// raw error text.
var ErrNetwork = errors.New("network error")

// APIError is a server-reported application error: a non-2xx status, or a 2xx
// body carrying an error field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Client talks to the external storefront backend API. Every business
// operation of consequence lives behind it; this service only holds the
// shopper-side state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// errEnvelope covers the error shapes the backend emits. Some endpoints use
// "error", others "message".
type errEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errEnvelope) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// doJSON performs one request against the backend. A non-nil out is filled
// from a 2xx body. Bearer is optional.
func (c *Client) doJSON(ctx context.Context, method, path, bearer string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("backend request failed")
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env errEnvelope
		_ = json.Unmarshal(raw, &env)
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Str("error", env.text()).Msg("backend error response")
		return &APIError{Status: resp.StatusCode, Message: env.text()}
	}

	// Some endpoints report failures inside a 2xx body. Only the "error"
	// field counts here; "message" doubles as an informational field on
	// successful responses.
	var env errEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
