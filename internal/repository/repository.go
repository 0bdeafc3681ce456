package repository

import (
	"context"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
// Carts are keyed by the browser session ID.
type CartRepository interface {
	// Load retrieves the cart stored for a session.
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error

	// Delete removes the stored cart for a session.
	Delete(ctx context.Context, sessionID string) error
}
