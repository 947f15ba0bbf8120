package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopverse/storefront/internal/domain"
	"github.com/shopverse/storefront/internal/pipeline"
	apperrors "github.com/shopverse/storefront/pkg/errors"
)

// Catalog is the slice of the catalog client the browse service consumes.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	BestSellers(ctx context.Context) ([]domain.Product, error)
	RecentlyPurchased(ctx context.Context, days int) ([]domain.Product, error)
	RecentlyShipped(ctx context.Context) ([]domain.Product, error)
}

// snapshot is one consistent view of the catalog data the pipeline derives
// pages from. Snapshots are replaced wholesale on refresh, never mutated.
type snapshot struct {
	products          []domain.Product
	bestSellers       []domain.Product
	bestSellerIDs     map[int64]struct{}
	recentlyPurchased []domain.Product
	recentlyShipped   []domain.Product
	loadedAt          time.Time
}

// Facets are the distinct filter values present in the product list.
type Facets struct {
	Categories    []string `json:"categories"`
	Types         []string `json:"types"`
	Manufacturers []string `json:"manufacturers"`
}

// BrowseService serves product pages through the filter pipeline from a
// periodically refreshed catalog snapshot.
type BrowseService struct {
	catalog               Catalog
	logger                *slog.Logger
	recentlyPurchasedDays int

	mu   sync.RWMutex
	snap snapshot
}

// NewBrowseService creates a browse service. Call Refresh (or Run) to load
// the first snapshot; until then every page is empty.
func NewBrowseService(catalog Catalog, recentlyPurchasedDays int, logger *slog.Logger) *BrowseService {
	return &BrowseService{
		catalog:               catalog,
		logger:                logger,
		recentlyPurchasedDays: recentlyPurchasedDays,
	}
}

// Refresh fetches the product list and the aggregate lists concurrently and
// swaps in a new snapshot. The aggregate fetches degrade independently: a
// failed fetch yields an empty list for that aggregate, logged, while the
// rest of the snapshot still loads. Only a failed product-list fetch is an
// error, and even then the previous snapshot stays in place.
func (s *BrowseService) Refresh(ctx context.Context) error {
	var (
		wg                sync.WaitGroup
		products          []domain.Product
		bestSellers       []domain.Product
		recentlyPurchased []domain.Product
		recentlyShipped   []domain.Product
		productsErr       error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		products, productsErr = s.catalog.ListProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		bestSellers = s.fetchAggregate(ctx, "best sellers", s.catalog.BestSellers)
	}()
	go func() {
		defer wg.Done()
		recentlyPurchased = s.fetchAggregate(ctx, "recently purchased", func(ctx context.Context) ([]domain.Product, error) {
			return s.catalog.RecentlyPurchased(ctx, s.recentlyPurchasedDays)
		})
	}()
	go func() {
		defer wg.Done()
		recentlyShipped = s.fetchAggregate(ctx, "recently shipped", s.catalog.RecentlyShipped)
	}()
	wg.Wait()

	if productsErr != nil {
		return fmt.Errorf("refresh product list: %w", productsErr)
	}

	bestSellerIDs := make(map[int64]struct{}, len(bestSellers))
	for _, p := range bestSellers {
		bestSellerIDs[p.ID] = struct{}{}
	}

	s.mu.Lock()
	s.snap = snapshot{
		products:          products,
		bestSellers:       bestSellers,
		bestSellerIDs:     bestSellerIDs,
		recentlyPurchased: recentlyPurchased,
		recentlyShipped:   recentlyShipped,
		loadedAt:          time.Now().UTC(),
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "catalog snapshot refreshed",
		slog.Int("products", len(products)),
		slog.Int("best_sellers", len(bestSellers)),
		slog.Int("recently_purchased", len(recentlyPurchased)),
		slog.Int("recently_shipped", len(recentlyShipped)),
	)

	return nil
}

// Run refreshes the snapshot on the given interval until the context is
// cancelled. Refresh failures are logged and retried on the next tick.
func (s *BrowseService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.ErrorContext(ctx, "catalog snapshot refresh failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Browse derives one page of products from the current snapshot.
func (s *BrowseService) Browse(ctx context.Context, criteria domain.FilterCriteria, page int) (pipeline.PageView, error) {
	if !domain.IsValidSort(criteria.Sort) {
		return pipeline.PageView{}, apperrors.InvalidInput(fmt.Sprintf("unknown sort key %q", criteria.Sort))
	}

	snap := s.current()
	return pipeline.Apply(snap.products, snap.bestSellerIDs, criteria, page), nil
}

// Search runs a catalog text search and applies the filter pipeline to the
// results. The catalog decides between plain and advanced search based on the
// query's shape.
func (s *BrowseService) Search(ctx context.Context, query string, criteria domain.FilterCriteria, page int) (pipeline.PageView, error) {
	if strings.TrimSpace(query) == "" {
		return pipeline.PageView{}, apperrors.InvalidInput("search query is required")
	}
	if !domain.IsValidSort(criteria.Sort) {
		return pipeline.PageView{}, apperrors.InvalidInput(fmt.Sprintf("unknown sort key %q", criteria.Sort))
	}

	results, err := s.catalog.Search(ctx, query)
	if err != nil {
		return pipeline.PageView{}, fmt.Errorf("search catalog: %w", err)
	}

	return pipeline.Apply(results, s.current().bestSellerIDs, criteria, page), nil
}

// GetProduct fetches a single product from the catalog.
func (s *BrowseService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// BestSellers returns the cached best-seller list.
func (s *BrowseService) BestSellers() []domain.Product {
	return s.current().bestSellers
}

// RecentlyPurchased returns the cached recently purchased list.
func (s *BrowseService) RecentlyPurchased() []domain.Product {
	return s.current().recentlyPurchased
}

// RecentlyShipped returns the cached recently shipped list.
func (s *BrowseService) RecentlyShipped() []domain.Product {
	return s.current().recentlyShipped
}

// Facets derives the distinct category, type, and manufacturer values from
// the current snapshot, sorted alphabetically.
func (s *BrowseService) Facets() Facets {
	snap := s.current()

	categories := map[string]struct{}{}
	types := map[string]struct{}{}
	manufacturers := map[string]struct{}{}
	for _, p := range snap.products {
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
		if p.Type != "" {
			types[p.Type] = struct{}{}
		}
		if p.Manufacturer != "" {
			manufacturers[p.Manufacturer] = struct{}{}
		}
	}

	return Facets{
		Categories:    sortedKeys(categories),
		Types:         sortedKeys(types),
		Manufacturers: sortedKeys(manufacturers),
	}
}

// SnapshotLoadedAt reports when the current snapshot was loaded. The zero
// time means no snapshot has ever loaded, i.e. the catalog has been
// unreachable since startup.
func (s *BrowseService) SnapshotLoadedAt() time.Time {
	return s.current().loadedAt
}

func (s *BrowseService) current() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// fetchAggregate fetches one aggregate list, degrading to empty on failure.
func (s *BrowseService) fetchAggregate(ctx context.Context, name string, fetch func(context.Context) ([]domain.Product, error)) []domain.Product {
	products, err := fetch(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, name+" fetch failed, continuing without",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return products
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
