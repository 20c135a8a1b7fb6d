package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// Recommendation is one suggested product. The endpoint wraps each
// product in its own object.
type Recommendation struct {
	Product domain.Product `json:"producto"`
}

// Recommendations suggests products related to the given seed ids,
// typically the cart contents or a single product being viewed. An
// empty seed returns nothing without a request. limit caps the number
// of suggestions; values below 1 fall back to 3.
func (c *Client) Recommendations(ctx context.Context, productIDs []int64, limit int) ([]Recommendation, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	if limit < 1 {
		limit = 3
	}

	req := struct {
		Products []int64 `json:"productos"`
		Limit    int     `json:"limite"`
	}{Products: productIDs, Limit: limit}

	var recs []Recommendation
	if err := c.do(ctx, http.MethodPost, "/recomendaciones/sugerencias/", nil, req, &recs); err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}
	return recs, nil
}
