package domain

import "time"

// ShippingInfo is the address form captured at checkout step one.
type ShippingInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem is the slimmed line-item shape the order endpoint expects.
type OrderItem struct {
	Type        ItemType `json:"type"`
	ReferenceID string   `json:"referenceId"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Color       *Color   `json:"selectedColor,omitempty"`
}

// OrderRequest is the payload posted to the external order-creation endpoint.
type OrderRequest struct {
	Items          []OrderItem  `json:"items"`
	Shipping       ShippingInfo `json:"shippingInfo"`
	ShippingMethod string       `json:"shippingMethod"`
	PaymentMethod  string       `json:"paymentMethod"`
	Discount       float64      `json:"discount"`
	Total          float64      `json:"total"`
}

// Order is the backend's confirmation of a created order.
type Order struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Address is a saved shipping address on the account dashboard.
type Address struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"isDefault"`
}

// Profile mirrors the editable account profile.
type Profile struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// SupportTicket is a help request raised from the dashboard.
type SupportTicket struct {
	ID       string `json:"id,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}
