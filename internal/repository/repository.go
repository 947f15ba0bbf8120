// Package repository defines the persistence interfaces for the per-session
// cart and wishlist stores.
package repository

import (
	"context"

	"github.com/shopverse/storefront/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves the cart for a session. Returns apperrors.ErrNotFound
	// when no cart has been saved for the session.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists the cart for a session, overwriting any existing one.
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error

	// Delete removes the cart for a session.
	Delete(ctx context.Context, sessionID string) error
}

// WishlistRepository defines the interface for wishlist persistence operations.
type WishlistRepository interface {
	// Get retrieves the wishlist for a session. Returns apperrors.ErrNotFound
	// when no wishlist has been saved for the session.
	Get(ctx context.Context, sessionID string) (*domain.Wishlist, error)

	// Save persists the wishlist for a session, overwriting any existing one.
	Save(ctx context.Context, sessionID string, wishlist *domain.Wishlist) error

	// Delete removes the wishlist for a session.
	Delete(ctx context.Context, sessionID string) error
}
