package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// Store owns the authoritative cart state. All mutations are serialized
// by a mutex, always derive the next state from the current one, and
// synchronously rewrite the persisted snapshot before returning.
type Store struct {
	mu       sync.Mutex
	cart     *domain.Cart
	snapshot Snapshot
	mediaURL string
	logger   *slog.Logger
}

// NewStore builds a store backed by the given snapshot. mediaBaseURL is
// used to resolve relative product image paths; it may be empty.
func NewStore(snapshot Snapshot, mediaBaseURL string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cart:     domain.NewCart(),
		snapshot: snapshot,
		mediaURL: strings.TrimRight(mediaBaseURL, "/"),
		logger:   logger,
	}
}

// Restore loads the persisted snapshot, if any. Called once at startup.
// A missing or unreadable snapshot is not an error: the store starts
// empty.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.snapshot.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			s.logger.Warn("discarding unreadable cart snapshot", "error", err)
		}
		s.cart = domain.NewCart()
		return
	}
	cart.RecomputeTotal()
	s.cart = cart
}

// Get returns a copy of the current cart.
func (s *Store) Get() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddItem merges the product into the cart: an existing line for the
// same product has its quantity incremented, otherwise a new line is
// appended with the normalized price and image reference. Quantities
// below 1 are clamped to 1.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cart.Find(product.ID); i >= 0 {
		s.cart.Lines[i].Quantity += quantity
	} else {
		s.cart.Lines = append(s.cart.Lines, domain.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Image:     s.resolveImage(product.Image),
			Quantity:  quantity,
		})
	}
	s.cart.RecomputeTotal()
	return s.persist(ctx)
}

// RemoveItem drops the line for productID. Removing an absent line is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.Find(productID)
	if i < 0 {
		return nil
	}
	s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
	s.cart.RecomputeTotal()
	return s.persist(ctx)
}

// SetQuantity overwrites the quantity of the line for productID.
// Quantities below 1 leave the cart unchanged; use RemoveItem to drop a
// line.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.Find(productID)
	if i < 0 {
		return nil
	}
	s.cart.Lines[i].Quantity = quantity
	s.cart.RecomputeTotal()
	return s.persist(ctx)
}

// Clear resets the cart to empty and drops the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = domain.NewCart()
	if err := s.snapshot.Delete(ctx); err != nil {
		return fmt.Errorf("clear cart snapshot: %w", err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.snapshot.Save(ctx, s.cart); err != nil {
		return fmt.Errorf("persist cart snapshot: %w", err)
	}
	return nil
}

// resolveImage leaves absolute references alone and resolves relative
// paths against the configured media base URL.
func (s *Store) resolveImage(ref string) string {
	if ref == "" || s.mediaURL == "" {
		return ref
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return s.mediaURL + "/" + strings.TrimLeft(ref, "/")
}
