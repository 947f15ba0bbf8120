package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopverse/storefront/internal/domain"
	apperrors "github.com/shopverse/storefront/pkg/errors"
)

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) Get(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) Save(ctx context.Context, sessionID string, wishlist *domain.Wishlist) error {
	args := m.Called(ctx, sessionID, wishlist)
	return args.Error(0)
}

func (m *mockWishlistRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func newTestWishlistService(repo *mockWishlistRepository, catalog *mockProductGetter) *WishlistService {
	return NewWishlistService(repo, catalog, newTestProducer(), newTestLogger())
}

func wishlistWith(ids ...int64) *domain.Wishlist {
	wishlist := domain.NewWishlist()
	for _, id := range ids {
		wishlist.Add(domain.Product{ID: id})
	}
	return wishlist
}

func TestGetWishlist_EmptyWhenNoneSaved(t *testing.T) {
	repo := new(mockWishlistRepository)
	ctx := context.Background()
	repo.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("wishlist", "sess-1"))

	svc := newTestWishlistService(repo, new(mockProductGetter))
	wishlist, err := svc.GetWishlist(ctx, "sess-1")

	require.NoError(t, err)
	assert.Equal(t, 0, wishlist.Count())
}

func TestWishlistAddItem(t *testing.T) {
	repo := new(mockWishlistRepository)
	catalog := new(mockProductGetter)
	ctx := context.Background()

	catalog.On("GetProduct", ctx, int64(7)).Return(&domain.Product{ID: 7, Name: "Strap"}, nil)
	repo.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("wishlist", "sess-1"))
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Wishlist")).Return(nil)

	svc := newTestWishlistService(repo, catalog)
	wishlist, err := svc.AddItem(ctx, "sess-1", 7)

	require.NoError(t, err)
	assert.True(t, wishlist.Contains(7))
	assert.Equal(t, 1, wishlist.Count())
}

func TestWishlistAddItem_AlreadyPresentIsIdempotent(t *testing.T) {
	repo := new(mockWishlistRepository)
	catalog := new(mockProductGetter)
	ctx := context.Background()

	catalog.On("GetProduct", ctx, int64(7)).Return(&domain.Product{ID: 7}, nil)
	repo.On("Get", ctx, "sess-1").Return(wishlistWith(7), nil)
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Wishlist")).Return(nil)

	svc := newTestWishlistService(repo, catalog)
	wishlist, err := svc.AddItem(ctx, "sess-1", 7)

	require.NoError(t, err)
	assert.Equal(t, 1, wishlist.Count())
}

func TestWishlistAddItem_UnknownProduct(t *testing.T) {
	repo := new(mockWishlistRepository)
	catalog := new(mockProductGetter)
	ctx := context.Background()

	catalog.On("GetProduct", ctx, int64(99)).Return(nil, apperrors.NotFound("product", "99"))

	svc := newTestWishlistService(repo, catalog)
	_, err := svc.AddItem(ctx, "sess-1", 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistRemoveItem(t *testing.T) {
	repo := new(mockWishlistRepository)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(wishlistWith(7, 8), nil)
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Wishlist")).Return(nil)

	svc := newTestWishlistService(repo, new(mockProductGetter))
	wishlist, err := svc.RemoveItem(ctx, "sess-1", 7)

	require.NoError(t, err)
	assert.False(t, wishlist.Contains(7))
	assert.True(t, wishlist.Contains(8))
}

func TestClearWishlist(t *testing.T) {
	repo := new(mockWishlistRepository)
	ctx := context.Background()
	repo.On("Delete", ctx, "sess-1").Return(nil)

	svc := newTestWishlistService(repo, new(mockProductGetter))
	err := svc.ClearWishlist(ctx, "sess-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
