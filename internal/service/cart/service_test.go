package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnish-storefront/internal/domain"
	"furnish-storefront/internal/pricing"
	"furnish-storefront/internal/repository/state"
)

// memoryState is an in-memory state.Repository for tests.
type memoryState struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	setTrip bool // when set, Set fails but Get keeps working
}

func newMemoryState() *memoryState {
	return &memoryState{data: make(map[string][]byte)}
}

func (m *memoryState) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[sessionID+"/"+key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memoryState) Set(_ context.Context, sessionID, key string, value []byte) error {
	if m.setErr != nil || m.setTrip {
		return errors.New("storage quota exceeded")
	}
	m.data[sessionID+"/"+key] = value
	return nil
}

func (m *memoryState) Delete(_ context.Context, sessionID, key string) error {
	delete(m.data, sessionID+"/"+key)
	return nil
}

func newTestStore(repo state.Repository) *Store {
	return New(repo, zerolog.Nop())
}

func chair(price pricing.Value, qty int) AddInput {
	return AddInput{
		Type:        domain.ItemTypeProduct,
		ReferenceID: "prod-42",
		Name:        "Walnut Lounge Chair",
		Designer:    "Aino Verner",
		Price:       price,
		Quantity:    qty,
	}
}

func TestAddItemAssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(newMemoryState())
	st := store.AddItem(context.Background(), "sess", chair(pricing.NewValue(250), 1))

	require.Len(t, st.Items, 1)
	it := st.Items[0]
	assert.Regexp(t, `^product_prod-42_\d+_`, it.ID)
	assert.False(t, it.AddedAt.IsZero())
}

func TestAddItemNeverMerges(t *testing.T) {
	store := newTestStore(newMemoryState())
	ctx := context.Background()
	store.AddItem(ctx, "sess", chair(pricing.NewValue(250), 1))
	st := store.AddItem(ctx, "sess", chair(pricing.NewValue(250), 1))

	// Identical type/reference/color still appends a second row.
	require.Len(t, st.Items, 2)
	assert.NotEqual(t, st.Items[0].ID, st.Items[1].ID)
	assert.Equal(t, 2, st.ItemCount)
}

func TestDerivedTotalsMixedPriceShapes(t *testing.T) {
	store := newTestStore(newMemoryState())
	ctx := context.Background()
	store.AddItem(ctx, "sess", chair(pricing.NewStringValue("1,200"), 2))
	st := store.AddItem(ctx, "sess", AddInput{
		Type:        domain.ItemTypeRoomStyle,
		ReferenceID: "rs-1",
		Name:        "Reading Nook",
		Price:       pricing.NewValue(100),
		Quantity:    1,
	})

	assert.Equal(t, 2500.0, st.Subtotal)
	assert.Equal(t, 0.0, st.Shipping, "free shipping at or above threshold")
	assert.Equal(t, 2500.0, st.Total)
	assert.Equal(t, 3, st.ItemCount)
	assert.Equal(t, 0.0, st.Tax)
	assert.Equal(t, 0.0, st.Discount)
}

func TestFlatShippingBelowThreshold(t *testing.T) {
	store := newTestStore(newMemoryState())
	st := store.AddItem(context.Background(), "sess", chair(pricing.NewValue(100), 2))

	assert.Equal(t, 200.0, st.Subtotal)
	assert.Equal(t, 50.0, st.Shipping)
	assert.Equal(t, 250.0, st.Total)
}

func TestUpdateQuantityClampsAndRemoves(t *testing.T) {
	store := newTestStore(newMemoryState())
	ctx := context.Background()
	st := store.AddItem(ctx, "sess", chair(pricing.NewValue(100), 2))
	id := st.Items[0].ID

	st = store.UpdateQuantity(ctx, "sess", id, 5)
	require.Len(t, st.Items, 1)
	assert.Equal(t, 5, st.Items[0].Quantity)

	st = store.UpdateQuantity(ctx, "sess", id, 0)
	assert.Empty(t, st.Items, "quantity zero drops the row")

	st = store.AddItem(ctx, "sess", chair(pricing.NewValue(100), 1))
	st = store.UpdateQuantity(ctx, "sess", st.Items[0].ID, -5)
	assert.Empty(t, st.Items, "negative quantity clamps to zero and drops the row")
}

func TestRemoveItemUnknownIDIsNoop(t *testing.T) {
	store := newTestStore(newMemoryState())
	ctx := context.Background()
	st := store.AddItem(ctx, "sess", chair(pricing.NewValue(100), 1))

	st = store.RemoveItem(ctx, "sess", "nope")
	assert.Len(t, st.Items, 1)
}

func TestClearResetsDerivedFields(t *testing.T) {
	store := newTestStore(newMemoryState())
	ctx := context.Background()
	store.AddItem(ctx, "sess", chair(pricing.NewValue(100), 3))

	st := store.Clear(ctx, "sess")
	assert.Empty(t, st.Items)
	assert.Zero(t, st.Subtotal)
	assert.Zero(t, st.Shipping)
	assert.Zero(t, st.Total)
	assert.Zero(t, st.ItemCount)

	assert.Empty(t, store.Load(ctx, "sess").Items, "clear persists")
}

func TestPersistReloadRoundTrip(t *testing.T) {
	repo := newMemoryState()
	ctx := context.Background()

	store := newTestStore(repo)
	before := store.AddItem(ctx, "sess", AddInput{
		Type:          domain.ItemTypeDesignerCollection,
		ReferenceID:   "dc-7",
		Name:          "Atelier Set",
		Price:         pricing.NewStringValue("1,250"),
		Quantity:      2,
		SelectedColor: &domain.Color{Name: "Oak", Hex: "#c19a6b"},
	})

	// Fresh store over the same repository, as after a reload.
	after := newTestStore(repo).Load(ctx, "sess")
	require.Len(t, after.Items, 1)
	assert.Equal(t, before.Items[0].ID, after.Items[0].ID)
	assert.Equal(t, before.Items[0].Type, after.Items[0].Type)
	assert.Equal(t, before.Items[0].ReferenceID, after.Items[0].ReferenceID)
	assert.Equal(t, before.Items[0].Quantity, after.Items[0].Quantity)
	assert.Equal(t, before.Items[0].Price.Float64(), after.Items[0].Price.Float64())
	assert.Equal(t, before.Items[0].SelectedColor, after.Items[0].SelectedColor)
	assert.Equal(t, before.Subtotal, after.Subtotal)
	assert.Equal(t, before.Total, after.Total)
}

func TestLoadRecomputesStaleTotals(t *testing.T) {
	repo := newMemoryState()
	ctx := context.Background()
	store := newTestStore(repo)
	store.AddItem(ctx, "sess", chair(pricing.NewValue(100), 2))

	// Tamper with the persisted aggregates; items stay intact.
	raw := repo.data["sess/"+state.KeyCart]
	var snap domain.CartState
	require.NoError(t, json.Unmarshal(raw, &snap))
	snap.Subtotal = 999999
	snap.Total = 999999
	snap.Shipping = 7
	tampered, err := json.Marshal(snap)
	require.NoError(t, err)
	repo.data["sess/"+state.KeyCart] = tampered

	st := store.Load(ctx, "sess")
	assert.Equal(t, 200.0, st.Subtotal)
	assert.Equal(t, 50.0, st.Shipping)
	assert.Equal(t, 250.0, st.Total)
}

func TestLoadCorruptSnapshotYieldsEmptyCart(t *testing.T) {
	repo := newMemoryState()
	repo.data["sess/"+state.KeyCart] = []byte(`{"items": not json`)

	st := newTestStore(repo).Load(context.Background(), "sess")
	assert.Empty(t, st.Items)
	assert.Zero(t, st.Total)
}

func TestLoadWrappedNotFoundIsSilentlyEmpty(t *testing.T) {
	repo := newMemoryState()
	repo.getErr = fmt.Errorf("query row: %w", domain.ErrNotFound)

	var logged bytes.Buffer
	st := New(repo, zerolog.New(&logged)).Load(context.Background(), "sess")
	assert.Empty(t, st.Items)
	assert.Zero(t, logged.Len(), "a missing snapshot is the normal case and must not be logged")
}

func TestStorageFailureDoesNotLoseInMemoryState(t *testing.T) {
	repo := newMemoryState()
	repo.setTrip = true

	st := newTestStore(repo).AddItem(context.Background(), "sess", chair(pricing.NewValue(100), 1))
	require.Len(t, st.Items, 1, "failed persist must not roll back the returned state")
	assert.Equal(t, 150.0, st.Total)
}
