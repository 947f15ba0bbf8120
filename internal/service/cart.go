// Package service implements the storefront's business logic: the
// per-session cart and wishlist stores, catalog browsing through the
// filter pipeline, and the shopping assistant.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopverse/storefront/internal/domain"
	"github.com/shopverse/storefront/internal/event"
	"github.com/shopverse/storefront/internal/repository"
	apperrors "github.com/shopverse/storefront/pkg/errors"
)

// MaxQuantityPerLine is the maximum quantity allowed for a single cart line.
const MaxQuantityPerLine = 100

// ProductGetter fetches single product records from the catalog.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// CartService implements the business logic for cart operations. Every
// mutation loads the session's cart, applies the change through the domain
// reducer, recomputes totals, and saves the result back.
type CartService struct {
	repo     repository.CartRepository
	catalog  ProductGetter
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, catalog ProductGetter, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. A session with no saved cart
// gets an empty one.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds one unit of a product to the session's cart. Adding a product
// already in the cart increments its line quantity instead of creating a
// duplicate line.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be a positive integer")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("look up product: %w", err)
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.Quantity(productID) >= MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	cart.Add(*product)

	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "cart item added",
		slog.Int64("product_id", productID),
		slog.Int("total_items", cart.TotalItems),
	)

	return cart, nil
}

// RemoveItem removes a product's line from the session's cart. Removing a
// product that is not in the cart leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)

	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "cart item removed",
		slog.Int64("product_id", productID),
		slog.Int("total_items", cart.TotalItems),
	)

	return cart, nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line; a product that is not in the cart leaves the cart unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(productID, quantity)

	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, sessionID, cart)

	return cart, nil
}

// ClearCart removes the session's cart entirely.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared")

	return nil
}

// publishUpdated publishes a cart.updated event; failures are logged, never
// returned, so event delivery cannot fail a shopper's request.
func (s *CartService) publishUpdated(ctx context.Context, sessionID string, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, sessionID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("error", err.Error()),
		)
	}
}
