package token

import (
	"context"
	"time"
)

// Tokens holds the bearer credentials persisted for one shopper session. Both
// tokens are opaque strings issued by the external auth backend; this service
// never mints or inspects them.
type Tokens struct {
	SessionID    string
	AccessToken  string
	RefreshToken string
	UpdatedAt    time.Time
}

type Repository interface {
	Save(ctx context.Context, t Tokens) error
	Get(ctx context.Context, sessionID string) (*Tokens, error)
	Delete(ctx context.Context, sessionID string) error
}
