package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopverse/storefront/internal/domain"
	"github.com/shopverse/storefront/internal/event"
	apperrors "github.com/shopverse/storefront/pkg/errors"
	pkgkafka "github.com/shopverse/storefront/pkg/kafka"
)

// --- Mocks ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	args := m.Called(ctx, sessionID, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockProductGetter struct {
	mock.Mock
}

func (m *mockProductGetter) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProducer returns a producer aimed at a dead broker; publish failures
// are logged by the services, not returned.
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestCartService(repo *mockCartRepository, catalog *mockProductGetter) *CartService {
	return NewCartService(repo, catalog, newTestProducer(), newTestLogger())
}

func cartWithLine(productID int64, price float64, quantity int) *domain.Cart {
	cart := domain.NewCart()
	for i := 0; i < quantity; i++ {
		cart.Add(domain.Product{ID: productID, Name: "Test Product", Price: domain.Price(price)})
	}
	return cart
}

// --- Tests ---

func TestGetCart_EmptyWhenNoneSaved(t *testing.T) {
	repo := new(mockCartRepository)
	ctx := context.Background()
	repo.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))

	svc := newTestCartService(repo, new(mockProductGetter))
	cart, err := svc.GetCart(ctx, "sess-1")

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	repo.AssertExpectations(t)
}

func TestGetCart_EmptySessionID(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository), new(mockProductGetter))

	_, err := svc.GetCart(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddItem_NewLine(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	ctx := context.Background()

	catalog.On("GetProduct", ctx, int64(7)).Return(&domain.Product{ID: 7, Name: "Pick", Price: 0.99}, nil)
	repo.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := newTestCartService(repo, catalog)
	cart, err := svc.AddItem(ctx, "sess-1", 7)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.TotalItems)
	assert.InDelta(t, 0.99, cart.TotalPrice, 0.0001)
	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	ctx := context.Background()

	catalog.On("GetProduct", ctx, int64(7)).Return(&domain.Product{ID: 7, Name: "Pick", Price: 0.99}, nil)
	repo.On("Get", ctx, "sess-1").Return(cartWithLine(7, 0.99, 2), nil)
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := newTestCartService(repo, catalog)
	cart, err := svc.AddItem(ctx, "sess-1", 7)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.TotalItems)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	ctx := context.Background()

	catalog.On("GetProduct", ctx, int64(99)).Return(nil, apperrors.NotFound("product", "99"))

	svc := newTestCartService(repo, catalog)
	_, err := svc.AddItem(ctx, "sess-1", 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_InvalidProductID(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository), new(mockProductGetter))

	_, err := svc.AddItem(context.Background(), "sess-1", 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRemoveItem(t *testing.T) {
	repo := new(mockCartRepository)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(cartWithLine(7, 10, 2), nil)
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := newTestCartService(repo, new(mockProductGetter))
	cart, err := svc.RemoveItem(ctx, "sess-1", 7)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
}

func TestRemoveItem_AbsentProductIsNoOp(t *testing.T) {
	repo := new(mockCartRepository)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(cartWithLine(7, 10, 2), nil)
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := newTestCartService(repo, new(mockProductGetter))
	cart, err := svc.RemoveItem(ctx, "sess-1", 99)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems)
}

func TestUpdateQuantity(t *testing.T) {
	repo := new(mockCartRepository)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(cartWithLine(7, 10, 2), nil)
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := newTestCartService(repo, new(mockProductGetter))
	cart, err := svc.UpdateQuantity(ctx, "sess-1", 7, 5)

	require.NoError(t, err)
	assert.Equal(t, 5, cart.Quantity(7))
	assert.InDelta(t, 50, cart.TotalPrice, 0.0001)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	repo := new(mockCartRepository)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(cartWithLine(7, 10, 2), nil)
	repo.On("Save", ctx, "sess-1", mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := newTestCartService(repo, new(mockProductGetter))
	cart, err := svc.UpdateQuantity(ctx, "sess-1", 7, 0)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_OverLimit(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository), new(mockProductGetter))

	_, err := svc.UpdateQuantity(context.Background(), "sess-1", 7, MaxQuantityPerLine+1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestClearCart(t *testing.T) {
	repo := new(mockCartRepository)
	ctx := context.Background()
	repo.On("Delete", ctx, "sess-1").Return(nil)

	svc := newTestCartService(repo, new(mockProductGetter))
	err := svc.ClearCart(ctx, "sess-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
