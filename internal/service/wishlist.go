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

// WishlistService implements the business logic for wishlist operations. The
// wishlist is an idempotent set: adding a product twice keeps a single entry.
type WishlistService struct {
	repo     repository.WishlistRepository
	catalog  ProductGetter
	producer *event.Producer
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, catalog ProductGetter, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// GetWishlist retrieves the wishlist for a session. A session with no saved
// wishlist gets an empty one.
func (s *WishlistService) GetWishlist(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	wishlist, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewWishlist(), nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	return wishlist, nil
}

// AddItem adds a product to the session's wishlist. Adding a product already
// on the list is a no-op.
func (s *WishlistService) AddItem(ctx context.Context, sessionID string, productID int64) (*domain.Wishlist, error) {
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

	wishlist, err := s.GetWishlist(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	wishlist.Add(*product)

	if err := s.repo.Save(ctx, sessionID, wishlist); err != nil {
		return nil, fmt.Errorf("save wishlist: %w", err)
	}

	s.publishUpdated(ctx, sessionID, wishlist)

	s.logger.InfoContext(ctx, "wishlist item added",
		slog.Int64("product_id", productID),
		slog.Int("count", wishlist.Count()),
	)

	return wishlist, nil
}

// RemoveItem removes a product from the session's wishlist. Removing a
// product that is not on the list is a no-op.
func (s *WishlistService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	wishlist, err := s.GetWishlist(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	wishlist.Remove(productID)

	if err := s.repo.Save(ctx, sessionID, wishlist); err != nil {
		return nil, fmt.Errorf("save wishlist: %w", err)
	}

	s.publishUpdated(ctx, sessionID, wishlist)

	s.logger.InfoContext(ctx, "wishlist item removed",
		slog.Int64("product_id", productID),
		slog.Int("count", wishlist.Count()),
	)

	return wishlist, nil
}

// ClearWishlist removes the session's wishlist entirely.
func (s *WishlistService) ClearWishlist(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}

	s.publishUpdated(ctx, sessionID, domain.NewWishlist())

	s.logger.InfoContext(ctx, "wishlist cleared")

	return nil
}

func (s *WishlistService) publishUpdated(ctx context.Context, sessionID string, wishlist *domain.Wishlist) {
	if err := s.producer.PublishWishlistUpdated(ctx, sessionID, wishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("error", err.Error()),
		)
	}
}
