package newsletter

import "context"

// Repository stores newsletter subscriptions. Unlike the rest of the
// storefront state this is written directly, not delegated to the backend.
type Repository interface {
	Subscribe(ctx context.Context, email string) error
}
