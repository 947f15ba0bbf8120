// Package catalog is the HTTP client for the product catalog service. The
// storefront consumes the catalog read-only; writes stay inside the catalog
// service itself.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopverse/storefront/internal/domain"
	apperrors "github.com/shopverse/storefront/pkg/errors"
	"github.com/shopverse/storefront/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// httpclient.Client satisfies this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client calls the catalog service's REST API.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     *slog.Logger
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(baseURL string, httpClient HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// ListProducts fetches the full storefront product list.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products/", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product by its id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &product); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// Search runs a text query against the catalog. Queries containing logical
// operators (AND, OR, NOT, IN, or parenthesised groups) are routed to the
// advanced-search endpoint; everything else goes to plain text search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	path := "/products/search"
	params := url.Values{"search": {query}}
	if HasLogicalOperators(query) {
		path = "/products/advanced-search"
		params = url.Values{"query": {query}}
	}

	var products []domain.Product
	if err := c.getJSON(ctx, path, params, &products); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	c.logger.DebugContext(ctx, "catalog search",
		slog.String("query", query),
		slog.String("path", path),
		slog.Int("results", len(products)),
	)
	return products, nil
}

// Suggestions fetches typeahead suggestion strings for a partial query.
func (c *Client) Suggestions(ctx context.Context, query string) ([]string, error) {
	var suggestions []string
	if err := c.getJSON(ctx, "/products/suggestions", url.Values{"query": {query}}, &suggestions); err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	return suggestions, nil
}

// SuggestionsDetailed fetches up to limit full product records matching a
// partial query, for rich typeahead dropdowns.
func (c *Client) SuggestionsDetailed(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	params := url.Values{"query": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var products []domain.Product
	if err := c.getJSON(ctx, "/products/suggestions-detailed", params, &products); err != nil {
		return nil, fmt.Errorf("fetch detailed suggestions: %w", err)
	}
	return products, nil
}

// BestSellers fetches the catalog's best-selling products.
func (c *Client) BestSellers(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products/best-sellers", nil, &products); err != nil {
		return nil, fmt.Errorf("fetch best sellers: %w", err)
	}
	return products, nil
}

// RecentlyPurchased fetches products purchased within the last days days.
func (c *Client) RecentlyPurchased(ctx context.Context, days int) ([]domain.Product, error) {
	var params url.Values
	if days > 0 {
		params = url.Values{"days": {strconv.Itoa(days)}}
	}

	var products []domain.Product
	if err := c.getJSON(ctx, "/products/recently-purchased", params, &products); err != nil {
		return nil, fmt.Errorf("fetch recently purchased: %w", err)
	}
	return products, nil
}

// RecentlyShipped fetches products that shipped recently.
func (c *Client) RecentlyShipped(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products/recently-shipped", nil, &products); err != nil {
		return nil, fmt.Errorf("fetch recently shipped: %w", err)
	}
	return products, nil
}

// ImageMatch is a product matched against an uploaded image.
type ImageMatch struct {
	Product         domain.Product `json:"product"`
	SimilarityScore float64        `json:"similarity_score"`
	MatchType       string         `json:"match_type"`
}

// ImageSearchResult is the catalog's response to an image search upload.
type ImageSearchResult struct {
	Products     []ImageMatch `json:"products"`
	TotalResults int          `json:"total_results"`
	Message      string       `json:"message"`
}

// ImageSearch uploads an image and returns visually matching products.
func (c *Client) ImageSearch(ctx context.Context, filename string, file io.Reader) (*ImageSearchResult, error) {
	body, contentType, err := multipartFile("file", filename, file)
	if err != nil {
		return nil, fmt.Errorf("build image upload: %w", err)
	}

	var result ImageSearchResult
	if err := c.postDecode(ctx, "/image-search/", contentType, body, &result); err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}
	return &result, nil
}

// VoiceSearchResult is the catalog's response to a voice search upload. The
// catalog transcribes the audio and searches with the recognized text.
type VoiceSearchResult struct {
	ConvertedText string           `json:"converted_text"`
	Products      []domain.Product `json:"products"`
	TotalResults  int              `json:"total_results"`
	Message       string           `json:"message"`
}

// VoiceSearch uploads an audio clip and returns products matching the
// transcribed speech.
func (c *Client) VoiceSearch(ctx context.Context, filename string, file io.Reader) (*VoiceSearchResult, error) {
	body, contentType, err := multipartFile("audio_file", filename, file)
	if err != nil {
		return nil, fmt.Errorf("build audio upload: %w", err)
	}

	var result VoiceSearchResult
	if err := c.postDecode(ctx, "/voice-search/", contentType, body, &result); err != nil {
		return nil, fmt.Errorf("voice search: %w", err)
	}
	return &result, nil
}

// ChatFilters holds the shopping filters the assistant extracted from a
// free-form user message. Zero values mean the filter was not mentioned.
type ChatFilters struct {
	Category string  `json:"category,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
}

// ChatResult is the catalog assistant's response: the extracted filters plus
// the products that match them.
type ChatResult struct {
	Filters ChatFilters      `json:"filters"`
	Results []domain.Product `json:"results"`
}

// Chat sends a free-form message to the catalog's shopping assistant.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResult, error) {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	var result ChatResult
	if err := c.postDecode(ctx, "/chat", "application/json", bytes.NewReader(payload), &result); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &result, nil
}

// getJSON issues a GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return apperrors.Unavailable("catalog service is unreachable").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "catalog")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// postDecode issues a POST and decodes a 2xx response into out.
func (c *Client) postDecode(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return apperrors.Unavailable("catalog service is unreachable").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, "catalog")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// multipartFile builds a single-file multipart body in memory. The buffered
// body lets the retrying HTTP client replay it safely.
func multipartFile(field, filename string, file io.Reader) (*bytes.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}

	return bytes.NewReader(buf.Bytes()), writer.FormDataContentType(), nil
}
