package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// SaleLine is one order line in the creation payload.
type SaleLine struct {
	ProductID int64 `json:"producto_id"`
	Quantity  int   `json:"cantidad"`
}

// SaleRequest is the order-creation payload. CustomerID is nil for
// guest orders.
type SaleRequest struct {
	CustomerID *int64     `json:"cliente_id"`
	Lines      []SaleLine `json:"detalles_payload"`
}

// NewSaleRequest maps cart lines to the {producto_id, cantidad} shape
// the sales endpoint expects.
func NewSaleRequest(cart *domain.Cart, customerID *int64) SaleRequest {
	lines := make([]SaleLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, SaleLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return SaleRequest{CustomerID: customerID, Lines: lines}
}

// Sale is a created or listed order record.
type Sale struct {
	ID     int64           `json:"id"`
	Status string          `json:"estado,omitempty"`
	Total  decimal.Decimal `json:"total,omitempty"`
	Date   string          `json:"fecha,omitempty"`
}

// CreateSale posts a new order. idempotencyKey deduplicates retried
// submissions server-side; pass "" to omit it.
func (c *Client) CreateSale(ctx context.Context, req SaleRequest, idempotencyKey string) (*Sale, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}

	var sale Sale
	if err := c.do(ctx, http.MethodPost, "/ventas/notas/", headers, req, &sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}
	return &sale, nil
}

// Orders lists the caller's order history.
func (c *Client) Orders(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.do(ctx, http.MethodGet, "/ventas/notas/", nil, nil, &sales); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return sales, nil
}

// Order fetches a single order by id.
func (c *Client) Order(ctx context.Context, id int64) (*Sale, error) {
	var sale Sale
	path := fmt.Sprintf("/ventas/notas/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &sale); err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &sale, nil
}
