package domain

import (
	"time"

	"furnish-storefront/internal/pricing"
)

// ItemType discriminates which catalog collection a line item's reference
// resolves against.
type ItemType string

const (
	ItemTypeProduct            ItemType = "product"
	ItemTypeRoomStyle          ItemType = "room-style"
	ItemTypeDesignerCollection ItemType = "designer-collection"
)

// Color is an optional swatch captured when the shopper picks a finish.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// LineItem is one row of the shopper's cart. Display fields (name, designer,
// image, prices) are copies captured at add time and are not live-synced to
// the catalog.
type LineItem struct {
	ID            string        `json:"id"`
	Type          ItemType      `json:"type"`
	ReferenceID   string        `json:"referenceId"`
	Name          string        `json:"name"`
	Designer      string        `json:"designer,omitempty"`
	Image         string        `json:"image,omitempty"`
	Price         pricing.Value `json:"price"`
	OriginalPrice pricing.Value `json:"originalPrice,omitzero"`
	Quantity      int           `json:"quantity"`
	SelectedColor *Color        `json:"selectedColor,omitempty"`
	AddedAt       time.Time     `json:"addedAt"`
}

// CartState is the cart plus its derived totals. The totals are pure
// functions of Items; persisted copies exist only as a cache and are
// recomputed on load.
type CartState struct {
	Items     []LineItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Shipping  float64    `json:"shipping"`
	Discount  float64    `json:"discount"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}
