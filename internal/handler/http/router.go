package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopverse/storefront/internal/service"
	"github.com/shopverse/storefront/pkg/health"
	"github.com/shopverse/storefront/pkg/middleware"
)

// RouterConfig collects the collaborators and tunables the router needs.
type RouterConfig struct {
	Browse         *service.BrowseService
	Cart           *service.CartService
	Wishlist       *service.WishlistService
	Suggest        *service.SuggestService
	Assistant      *service.AssistantService
	Media          MediaSearcher
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	RateLimitRPS   int
	RateLimitBurst int
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	productsHandler := NewProductsHandler(cfg.Browse, cfg.Logger)
	searchHandler := NewSearchHandler(cfg.Browse, cfg.Suggest, cfg.Media, cfg.Logger)
	cartHandler := NewCartHandler(cfg.Cart, cfg.Logger)
	wishlistHandler := NewWishlistHandler(cfg.Wishlist, cfg.Logger)
	assistantHandler := NewAssistantHandler(cfg.Assistant, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionID)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productsHandler.Browse)
			r.Get("/facets", productsHandler.Facets)
			r.Get("/best-sellers", productsHandler.BestSellers)
			r.Get("/recently-purchased", productsHandler.RecentlyPurchased)
			r.Get("/recently-shipped", productsHandler.RecentlyShipped)
			r.Get("/{productId}", productsHandler.GetProduct)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", searchHandler.Search)
			r.Get("/suggestions", searchHandler.Suggestions)
			r.Get("/suggestions-detailed", searchHandler.SuggestionsDetailed)
			// Multipart uploads; these stay outside the JSON content-type guard.
			r.Post("/image", searchHandler.ImageSearch)
			r.Post("/voice", searchHandler.VoiceSearch)
		})

		r.With(ContentTypeJSON).Post("/chat", assistantHandler.Chat)

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/", wishlistHandler.GetWishlist)
			r.Delete("/", wishlistHandler.ClearWishlist)

			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
		})
	})

	return r
}
