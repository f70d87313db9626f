package state

import "context"

// Storage keys mirror the fixed keys the browser client used for its durable
// storage. Each store owns exactly one key.
const (
	KeyCart     = "furnish-cart"
	KeyCheckout = "furnish-checkout"
)

// Repository is a per-session key-value store for client-owned snapshots
// (cart, checkout draft). Values are opaque JSON documents.
type Repository interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}
