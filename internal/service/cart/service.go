package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"furnish-storefront/internal/domain"
	"furnish-storefront/internal/pricing"
	"furnish-storefront/internal/repository/state"
)

// Store maintains the authoritative cart for each shopper session. Every
// mutation recomputes the derived totals and persists the new snapshot before
// returning; persistence is best-effort durability, the returned state is
// always the source of truth.
type Store struct {
	snapshots snapshotRepo
	log       zerolog.Logger
}

type snapshotRepo interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}

func New(snapshots state.Repository, log zerolog.Logger) *Store {
	return &Store{snapshots: snapshots, log: log}
}

// AddInput is a line item as the storefront pages submit it, before the store
// assigns an id and timestamp.
type AddInput struct {
	Type          domain.ItemType `json:"type"`
	ReferenceID   string          `json:"referenceId"`
	Name          string          `json:"name"`
	Designer      string          `json:"designer"`
	Image         string          `json:"image"`
	Price         pricing.Value   `json:"price"`
	OriginalPrice pricing.Value   `json:"originalPrice"`
	Quantity      int             `json:"quantity"`
	SelectedColor *domain.Color   `json:"selectedColor"`
}

// Load reads the persisted snapshot for the session. Totals are always
// recomputed from the revived items; persisted aggregates are a cache from a
// prior write and are never trusted (they go stale across schema or pricing
// changes). Missing or corrupt snapshots yield the empty cart.
func (s *Store) Load(ctx context.Context, sessionID string) domain.CartState {
	raw, err := s.snapshots.Get(ctx, sessionID, state.KeyCart)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("session", sessionID).Msg("read cart snapshot")
		}
		return emptyState()
	}
	var snap domain.CartState
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("corrupt cart snapshot, starting empty")
		return emptyState()
	}
	return recompute(snap.Items)
}

// AddItem appends a new row to the cart. Identical items (same type,
// reference and color) are deliberately not merged; each add is its own row.
func (s *Store) AddItem(ctx context.Context, sessionID string, in AddInput) domain.CartState {
	cur := s.Load(ctx, sessionID)

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	item := domain.LineItem{
		ID:            newItemID(in.Type, in.ReferenceID),
		Type:          in.Type,
		ReferenceID:   in.ReferenceID,
		Name:          in.Name,
		Designer:      in.Designer,
		Image:         in.Image,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Quantity:      qty,
		SelectedColor: in.SelectedColor,
		AddedAt:       time.Now().UTC(),
	}

	next := recompute(append(cur.Items, item))
	s.persist(ctx, sessionID, next)
	return next
}

// RemoveItem drops the item with the given id. Unknown ids are a no-op, not
// an error.
func (s *Store) RemoveItem(ctx context.Context, sessionID, id string) domain.CartState {
	cur := s.Load(ctx, sessionID)
	kept := cur.Items[:0:0]
	for _, it := range cur.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	next := recompute(kept)
	s.persist(ctx, sessionID, next)
	return next
}

// UpdateQuantity sets the quantity for one item, clamped at zero. A clamped
// value of zero removes the row entirely; quantity 0 is never stored.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, id string, quantity int) domain.CartState {
	if quantity < 0 {
		quantity = 0
	}
	cur := s.Load(ctx, sessionID)
	kept := cur.Items[:0:0]
	for _, it := range cur.Items {
		if it.ID == id {
			if quantity == 0 {
				continue
			}
			it.Quantity = quantity
		}
		kept = append(kept, it)
	}
	next := recompute(kept)
	s.persist(ctx, sessionID, next)
	return next
}

// Clear resets the session to the empty cart.
func (s *Store) Clear(ctx context.Context, sessionID string) domain.CartState {
	next := emptyState()
	s.persist(ctx, sessionID, next)
	return next
}

func (s *Store) persist(ctx context.Context, sessionID string, st domain.CartState) {
	raw, err := json.Marshal(st)
	if err != nil {
		s.log.Error().Err(err).Str("session", sessionID).Msg("encode cart snapshot")
		return
	}
	if err := s.snapshots.Set(ctx, sessionID, state.KeyCart, raw); err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("persist cart snapshot")
	}
}

func emptyState() domain.CartState {
	return domain.CartState{Items: []domain.LineItem{}}
}

// recompute derives every aggregate from the items alone. No other code path
// may set the totals.
func recompute(items []domain.LineItem) domain.CartState {
	if len(items) == 0 {
		return emptyState()
	}
	var subtotal float64
	count := 0
	for _, it := range items {
		subtotal += it.Price.Float64() * float64(it.Quantity)
		count += it.Quantity
	}
	shipping := float64(pricing.StandardShipping)
	if subtotal >= pricing.FreeShippingThreshold {
		shipping = 0
	}
	discount := 0.0 // reserved for promotions
	return domain.CartState{
		Items:     items,
		Subtotal:  subtotal,
		Shipping:  shipping,
		Discount:  discount,
		Tax:       0, // prices are tax-inclusive
		Total:     subtotal + shipping - discount,
		ItemCount: count,
	}
}

// newItemID builds an id unique even across rapid repeated adds of the same
// reference: type, reference, millisecond timestamp and a random suffix.
func newItemID(t domain.ItemType, referenceID string) string {
	var buf [4]byte
	suffix := fmt.Sprintf("%d", time.Now().UnixNano()%100000)
	if _, err := rand.Read(buf[:]); err == nil {
		suffix = hex.EncodeToString(buf[:])
	}
	return fmt.Sprintf("%s_%s_%d_%s", t, referenceID, time.Now().UnixMilli(), suffix)
}
