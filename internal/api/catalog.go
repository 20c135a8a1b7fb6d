package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/productos/", nil, nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Product fetches a single catalog entry by id.
func (c *Client) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	path := fmt.Sprintf("/productos/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &product); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}
