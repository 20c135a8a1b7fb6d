package cart

import (
	"context"
	"errors"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// Snapshot persists the full cart state. Every store mutation rewrites
// the whole snapshot; there is no incremental update. Consumers define
// this interface, not the backends.
type Snapshot interface {
	Load(ctx context.Context) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context) error
}

var ErrNoSnapshot = errors.New("no cart snapshot")
