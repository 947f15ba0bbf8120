package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopverse/storefront/internal/domain"
	"github.com/shopverse/storefront/internal/event"
	"github.com/shopverse/storefront/internal/service"
	apperrors "github.com/shopverse/storefront/pkg/errors"
	"github.com/shopverse/storefront/pkg/httputil"
	pkgkafka "github.com/shopverse/storefront/pkg/kafka"
)

// ============================================================================
// Mocks
// ============================================================================

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

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testCartHandler(repo *mockCartRepository, catalog *mockProductGetter) *CartHandler {
	svc := service.NewCartService(repo, catalog, testEventProducer(), testLogger())
	return NewCartHandler(svc, testLogger())
}

// setupCartRouter creates a chi router matching the production route layout,
// including the SessionID and ContentTypeJSON middleware so session handling
// is tested end-to-end.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(SessionID)
		r.Use(ContentTypeJSON)

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)

		r.Post("/items", handler.AddItem)
		r.Put("/items/{productId}", handler.UpdateQuantity)
		r.Delete("/items/{productId}", handler.RemoveItem)
	})
	return r
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:           42,
		Name:         "Stratocaster",
		Price:        domain.Price(749.99),
		Category:     "Guitars",
		Type:         "Electric",
		Manufacturer: "Fender",
	}
}

func cartWith(p *domain.Product, quantity int) *domain.Cart {
	cart := domain.NewCart()
	for i := 0; i < quantity; i++ {
		cart.Add(*p)
	}
	return cart
}

const testSession = "sess-cart-1"

// ============================================================================
// GET /api/v1/cart - GetCart
// ============================================================================

func TestGetCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	repo.On("Get", mock.Anything, testSession).Return(cartWith(sampleProduct(), 2), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestGetCart_NoSavedState_ReturnsEmptyCart(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	repo.On("Get", mock.Anything, testSession).
		Return(nil, apperrors.NotFound("cart", testSession))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestGetCart_MissingSessionHeader_GeneratesOne(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	// Whatever fresh session ID the middleware mints, the repository sees it
	// and the response echoes it back to the client.
	repo.On("Get", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, apperrors.NotFound("cart", "fresh"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(SessionHeader))
	repo.AssertExpectations(t)
}

func TestGetCart_RepositoryError(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	repo.On("Get", mock.Anything, testSession).Return(nil, fmt.Errorf("redis connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	repo.AssertExpectations(t)
}

// ============================================================================
// POST /api/v1/cart/items - AddItem
// ============================================================================

func addItemJSON(productID int64) []byte {
	b, _ := json.Marshal(AddItemRequest{ProductID: productID})
	return b
}

func TestAddItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	product := sampleProduct()
	repo.On("Get", mock.Anything, testSession).
		Return(nil, apperrors.NotFound("cart", testSession))
	catalog.On("GetProduct", mock.Anything, product.ID).Return(product, nil)
	repo.On("Save", mock.Anything, testSession, mock.AnythingOfType("*domain.Cart")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON(product.ID)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestAddItem_UnknownProduct_Returns404(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	// Product resolution happens before the cart is touched.
	catalog.On("GetProduct", mock.Anything, int64(999)).
		Return(nil, apperrors.NotFound("product", "999"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON(999)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{invalid json`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
}

func TestAddItem_ValidationError_MissingProductID(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_WrongContentType_Returns415(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON(42)))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// PUT /api/v1/cart/items/{productId} - UpdateQuantity
// ============================================================================

func TestUpdateQuantity_Success(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	repo.On("Get", mock.Anything, testSession).Return(cartWith(sampleProduct(), 1), nil)
	repo.On("Save", mock.Anything, testSession, mock.AnythingOfType("*domain.Cart")).Return(nil)

	body := []byte(`{"quantity": 5}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/42", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestUpdateQuantity_NegativeQuantity_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	body := []byte(`{"quantity": -3}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/42", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuantity_InvalidProductID_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	body := []byte(`{"quantity": 2}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/not-a-number", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// DELETE /api/v1/cart/items/{productId} - RemoveItem
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	repo.On("Get", mock.Anything, testSession).Return(cartWith(sampleProduct(), 1), nil)
	repo.On("Save", mock.Anything, testSession, mock.AnythingOfType("*domain.Cart")).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/42", nil)
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

// ============================================================================
// DELETE /api/v1/cart - ClearCart
// ============================================================================

func TestClearCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	catalog := new(mockProductGetter)
	router := setupCartRouter(testCartHandler(repo, catalog))

	repo.On("Delete", mock.Anything, testSession).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}
