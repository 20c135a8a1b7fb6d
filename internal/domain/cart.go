package domain

import (
	"github.com/shopspring/decimal"
)

// CartLine is a single product entry in the cart. Lines are keyed by
// ProductID; quantity never drops below 1 (removal models "no item").
type CartLine struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the line items in insertion order plus the derived total.
// Total is never stored independently of a recompute; use RecomputeTotal
// after any mutation of Lines.
type Cart struct {
	Lines []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// NewCart returns an empty cart with a zero total.
func NewCart() *Cart {
	return &Cart{Total: decimal.Zero}
}

// RecomputeTotal derives Total from the current lines.
func (c *Cart) RecomputeTotal() {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	c.Total = total
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy so callers can hand out carts without
// exposing internal state to mutation.
func (c *Cart) Clone() *Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return &Cart{Lines: lines, Total: c.Total}
}

// Product is the catalog projection the cart needs when a line is added.
// The API serializes prices as decimal strings.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion,omitempty"`
	Price       decimal.Decimal `json:"precio"`
	Image       string          `json:"imagen,omitempty"`
	Stock       int             `json:"stock,omitempty"`
}
