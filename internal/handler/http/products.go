package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopverse/storefront/internal/domain"
	"github.com/shopverse/storefront/internal/service"
	"github.com/shopverse/storefront/pkg/httputil"
	"github.com/shopverse/storefront/pkg/pagination"
)

// ProductsHandler handles HTTP requests for product browsing.
type ProductsHandler struct {
	browse *service.BrowseService
	logger *slog.Logger
}

// NewProductsHandler creates a new products HTTP handler.
func NewProductsHandler(browse *service.BrowseService, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		browse: browse,
		logger: logger,
	}
}

// criteriaFromQuery reads the browse filter parameters from the URL query.
func criteriaFromQuery(r *http.Request) domain.FilterCriteria {
	q := r.URL.Query()
	return domain.FilterCriteria{
		Sort:         q.Get("sort"),
		Category:     q.Get("category"),
		Type:         q.Get("type"),
		Manufacturer: q.Get("manufacturer"),
		PriceBucket:  q.Get("price_bucket"),
	}
}

// Browse handles GET /api/v1/products
func (h *ProductsHandler) Browse(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	view, err := h.browse.Browse(r.Context(), criteriaFromQuery(r), params.Page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// GetProduct handles GET /api/v1/products/{productId}
func (h *ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.browse.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// BestSellers handles GET /api/v1/products/best-sellers
func (h *ProductsHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.browse.BestSellers()})
}

// RecentlyPurchased handles GET /api/v1/products/recently-purchased
func (h *ProductsHandler) RecentlyPurchased(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.browse.RecentlyPurchased()})
}

// RecentlyShipped handles GET /api/v1/products/recently-shipped
func (h *ProductsHandler) RecentlyShipped(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.browse.RecentlyShipped()})
}

// Facets handles GET /api/v1/products/facets
func (h *ProductsHandler) Facets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.browse.Facets()})
}
